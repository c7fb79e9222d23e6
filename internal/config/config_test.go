package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Seed.Source != "fixture" || cfg.Seed.Password != "123456" {
		t.Errorf("seed = %+v", cfg.Seed)
	}
	if cfg.Session.Backend != "bolt" || cfg.Session.Key != "user" {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.JWT.Expiration != time.Hour || cfg.Auth.BcryptCost != 10 || cfg.Analytics.WeekStart != "sunday" || cfg.Payment.SimulatedDelay != 0 {
		t.Errorf("jwt=%+v auth=%+v analytics=%+v", cfg.JWT, cfg.Auth, cfg.Analytics)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
session:
  backend: memory
analytics:
  week_start: monday
jwt:
  expiration: 30m
payment:
  simulated_delay: 2s
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SESSION_BACKEND", "s3")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Server.Address != ":9090" || cfg.Analytics.WeekStart != "monday" || cfg.JWT.Expiration != 30*time.Minute || cfg.Payment.SimulatedDelay != 2*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.JWT.Secret != "from-env" || cfg.Session.Backend != "s3" {
		t.Errorf("env values not applied: jwt=%q backend=%q", cfg.JWT.Secret, cfg.Session.Backend)
	}
}
