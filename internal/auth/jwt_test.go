package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(42)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(7)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := NewTokenManager("test-secret", time.Hour).Verify("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))

	// stored hashes from other cost settings still verify
	low, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword(string(low), "hunter2"))
}
