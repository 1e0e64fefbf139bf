package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret", time.Minute)
}

func TestLoginAcceptsAnyNonEmptyCredentials(t *testing.T) {
	s := newTestService()

	user, token, err := s.Login("mike@plumbing.example", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "mike@plumbing.example", user.Email)
	assert.Equal(t, "mike", user.Name)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, s.Current())
}

func TestLoginRejectsEmptyFields(t *testing.T) {
	s := newTestService()

	_, _, err := s.Login("", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login("mike@plumbing.example", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, s.Current())
}

func TestRegisterRequiresAllFields(t *testing.T) {
	s := newTestService()

	_, _, err := s.Register("mike@plumbing.example", "hunter2", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	user, token, err := s.Register("mike@plumbing.example", "hunter2", "Mike")
	require.NoError(t, err)
	assert.Equal(t, "Mike", user.Name)
	assert.NotEmpty(t, token)
}

func TestIssuedTokenCarriesClaims(t *testing.T) {
	s := newTestService()

	user, token, err := s.Login("mike@plumbing.example", "hunter2")
	require.NoError(t, err)

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "mike", claims.Name)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestLogoutClearsSession(t *testing.T) {
	s := newTestService()
	_, _, err := s.Login("mike@plumbing.example", "hunter2")
	require.NoError(t, err)

	s.Logout()
	assert.Nil(t, s.Current())
}

func TestSubscribeObservesSessionChanges(t *testing.T) {
	s := newTestService()

	var seen []*User
	unsub := s.Subscribe(func(u *User) {
		seen = append(seen, u)
	})
	defer unsub()

	_, _, err := s.Login("mike@plumbing.example", "hunter2")
	require.NoError(t, err)
	s.Logout()

	require.Len(t, seen, 3)
	assert.Nil(t, seen[0]) // immediate snapshot, no session yet
	require.NotNil(t, seen[1])
	assert.Equal(t, "mike", seen[1].Name)
	assert.Nil(t, seen[2])
}
