// Package auth issues and validates the JWT tokens used by the protection
// API, and hashes user passwords with bcrypt.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role controls which API surfaces a user may call.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	ErrTokenRevoked  = errors.New("auth: token has been revoked")
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrWrongPassword = errors.New("auth: wrong password")
)

// Claims carries the identity embedded in every issued token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// Config contains token issuance settings.
type Config struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// DefaultConfig returns the default token settings.
func DefaultConfig() Config {
	return Config{
		Issuer:   "data-protection",
		TokenTTL: 8 * time.Hour,
	}
}

// Manager signs and verifies HS256 tokens. Revocation is in-memory: a
// restart forgets revocations, which is acceptable because tokens are
// short-lived.
type Manager struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration

	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewManager creates a token manager from the given configuration.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultConfig().Issuer
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultConfig().TokenTTL
	}

	return &Manager{
		secret:   []byte(cfg.Secret),
		issuer:   issuer,
		tokenTTL: ttl,
		revoked:  make(map[string]time.Time),
	}, nil
}

// GenerateToken issues a signed token for the given user.
func (m *Manager) GenerateToken(userID, username string, role Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and registered claims and rejects
// revoked tokens.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if m.isRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// RevokeToken invalidates a token by its ID until the process restarts.
func (m *Manager) RevokeToken(tokenID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = time.Now()
}

func (m *Manager) isRevoked(tokenID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.revoked[tokenID]
	return ok
}

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a password against its stored bcrypt hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
