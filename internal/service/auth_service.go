package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	// Unknown email, wrong password and wrong role all map here so callers
	// cannot tell which accounts exist.
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidRole          = errors.New("role must be student or trainer")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidProfile       = errors.New("invalid profile")
	ErrEmailTaken           = errors.New("email is already used by another account")
)

type AuthService interface {
	// Authenticate checks the credentials against the account directory of
	// the claimed role and returns the matching account.
	Authenticate(ctx context.Context, email, password string, role domain.Role) (domain.Account, error)
	IssueToken(acc domain.Account) (string, error)
	GetJWTSecret() string
	// Account looks up the account a token was issued for.
	Account(ctx context.Context, userID string, role domain.Role) (domain.Account, error)
	// UpdateProfile returns the account with its profile edited. Empty
	// fields keep their current value. Nothing is persisted.
	UpdateProfile(ctx context.Context, userID string, role domain.Role, p domain.Profile) (domain.Account, error)
}

// authService implements the AuthService interface.
type authService struct {
	directory     repository.Directory
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(directory repository.Directory, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1 // Default to 1 hour if not set properly
	}
	return &authService{
		directory:     directory,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// HashPassword produces the bcrypt hash stored on seeded accounts.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// Authenticate handles credential verification for both roles.
func (s *authService) Authenticate(ctx context.Context, email, password string, role domain.Role) (domain.Account, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if email == "" || password == "" {
		return nil, ErrAuthenticationFailed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		acc   domain.Account
		found bool
	)
	switch role {
	case domain.RoleTrainer:
		var t domain.Trainer
		t, found = s.directory.FindTrainerByEmail(email)
		acc = t
	case domain.RoleStudent:
		var st domain.Student
		st, found = s.directory.FindStudentByEmail(email)
		acc = st
	}
	if !found {
		return nil, ErrAuthenticationFailed
	}

	hash := acc.Profile().PasswordHash
	if hash == "" {
		return nil, ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// Password mismatch maps to the same general auth failure
		return nil, ErrAuthenticationFailed
	}
	return acc, nil
}

func (s *authService) Account(ctx context.Context, userID string, role domain.Role) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch role {
	case domain.RoleTrainer:
		if t, ok := s.directory.FindTrainerByID(userID); ok {
			return t, nil
		}
	case domain.RoleStudent:
		if st, ok := s.directory.FindStudentByID(userID); ok {
			return st, nil
		}
	default:
		return nil, ErrInvalidRole
	}
	return nil, ErrAccountNotFound
}

var profileValidator = validator.New()

// profileRules holds the constraints on an edited profile.
type profileRules struct {
	Name  string `validate:"omitempty,max=80"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,max=30"`
	Photo string `validate:"omitempty,url"`
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, role domain.Role, p domain.Profile) (domain.Account, error) {
	acc, err := s.Account(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	cur := acc.Profile()
	merged := domain.Profile{
		Name:  keepIfBlank(p.Name, cur.Name),
		Email: keepIfBlank(p.Email, cur.Email),
		Phone: keepIfBlank(p.Phone, cur.Phone),
		Photo: keepIfBlank(p.Photo, cur.Photo),
	}
	if err := profileValidator.Struct(profileRules(merged)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if merged.Email != cur.Email && s.emailInUse(merged.Email, userID) {
		return nil, ErrEmailTaken
	}

	switch a := acc.(type) {
	case domain.Student:
		return a.WithProfile(merged), nil
	case domain.Trainer:
		return a.WithProfile(merged), nil
	}
	return nil, ErrInvalidRole
}

// emailInUse reports whether an account other than userID has email.
func (s *authService) emailInUse(email, userID string) bool {
	if st, ok := s.directory.FindStudentByEmail(email); ok && st.ID != userID {
		return true
	}
	if t, ok := s.directory.FindTrainerByEmail(email); ok && t.ID != userID {
		return true
	}
	return false
}

func keepIfBlank(v, current string) string {
	if v = strings.TrimSpace(v); v == "" {
		return current
	}
	return v
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed JWT for the account.
func (s *authService) IssueToken(acc domain.Account) (string, error) {
	if acc == nil {
		return "", ErrTokenGeneration
	}
	now := time.Now()
	claims := &jwtClaims{
		UserID: acc.Profile().ID,
		Role:   acc.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.Profile().ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "central-fight",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", ErrTokenGeneration
	}
	return signed, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
