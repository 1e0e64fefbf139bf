// Package auth provides the mock authentication service. Credentials are not
// verified against a real identity provider; sessions exist to exercise the
// login/logout flow and to mint tokens for the API middleware.
package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Human-readable rejection messages surfaced directly to the caller.
var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrMissingFields      = errors.New("Please fill in all fields")
)

// User is an authenticated operator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Claims are the JWT claims issued on login.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// Service manages mock sessions and notifies subscribers on auth changes.
type Service struct {
	jwtSecret  []byte
	expiration time.Duration

	mu           sync.Mutex
	current      *User
	observers    map[int]func(*User)
	nextObserver int
}

// NewService creates an auth service signing tokens with the given secret.
func NewService(jwtSecret string, expiration time.Duration) *Service {
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}
	return &Service{
		jwtSecret:  []byte(jwtSecret),
		expiration: expiration,
		observers:  make(map[int]func(*User)),
	}
}

// Subscribe registers an observer, invoked immediately with the current
// session and again on every login/logout.
func (s *Service) Subscribe(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Login starts a session. Any non-empty credentials are accepted.
func (s *Service) Login(email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return s.startSession(email, name)
}

// Register creates an account and starts a session.
func (s *Service) Register(email, password, name string) (*User, string, error) {
	if email == "" || password == "" || name == "" {
		return nil, "", ErrMissingFields
	}
	return s.startSession(email, name)
}

// Logout ends the current session.
func (s *Service) Logout() {
	s.mu.Lock()
	s.current = nil
	observers := s.observersLocked()
	s.mu.Unlock()

	for _, fn := range observers {
		fn(nil)
	}
}

// Current returns the active session, or nil.
func (s *Service) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) startSession(email, name string) (*User, string, error) {
	user := &User{
		ID:    "user_" + uuid.NewString()[:8],
		Email: email,
		Name:  name,
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.current = user
	observers := s.observersLocked()
	s.mu.Unlock()

	for _, fn := range observers {
		fn(user)
	}
	return user, token, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
		Name: user.Name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *Service) observersLocked() []func(*User) {
	out := make([]func(*User), 0, len(s.observers))
	for _, fn := range s.observers {
		out = append(out, fn)
	}
	return out
}
