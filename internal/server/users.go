package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/auth"
)

// ErrBadCredentials is returned for unknown users and wrong passwords alike.
var ErrBadCredentials = errors.New("server: invalid credentials")

// User is one API account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         auth.Role
}

// UserStore keeps API accounts in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]User)}
}

// AddUser registers an account with a bcrypt-hashed password.
func (s *UserStore) AddUser(username, password string, role auth.Role) (User, error) {
	if username == "" || password == "" {
		return User{}, errors.New("server: username and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return User{}, errors.New("server: user already exists")
	}
	user := User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	s.users[username] = user
	return user, nil
}

// Authenticate verifies a username/password pair.
func (s *UserStore) Authenticate(username, password string) (User, error) {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		return User{}, ErrBadCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrBadCredentials
	}
	return user, nil
}
