package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Seed      SeedConfig      `mapstructure:"seed"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Payment   PaymentConfig   `mapstructure:"payment"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// SeedConfig selects where the entity snapshot comes from.
type SeedConfig struct {
	Source string `mapstructure:"source"` // "fixture" or "mongo"
	// Password given to every fixture account. Stored only as a bcrypt hash.
	Password string `mapstructure:"password"`
	// WriteToMongo upserts the fixture into Mongo before serving.
	WriteToMongo bool `mapstructure:"write_to_mongo"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// SessionConfig controls where the current-session record is persisted.
type SessionConfig struct {
	Backend  string `mapstructure:"backend"` // "memory", "bolt" or "s3"
	Key      string `mapstructure:"key"`
	BoltPath string `mapstructure:"bolt_path"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type AnalyticsConfig struct {
	WeekStart string `mapstructure:"week_start"`
}

// PaymentConfig tunes the simulated payment provider.
type PaymentConfig struct {
	SimulatedDelay time.Duration `mapstructure:"simulated_delay"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "central_fight")
	v.SetDefault("seed.source", "fixture")
	v.SetDefault("seed.password", "123456")
	v.SetDefault("seed.write_to_mongo", false)
	// Unmarshal only sees env vars for keys viper already knows about.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.key_prefix", "sessions")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("session.backend", "bolt")
	v.SetDefault("session.key", "user")
	v.SetDefault("session.bolt_path", "data/session.db")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("analytics.week_start", "sunday")
	v.SetDefault("payment.simulated_delay", "0s")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file not found; rely on defaults and env vars
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("60m", "1h") decode straight into time.Duration.
	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
