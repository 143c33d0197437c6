package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	token, err := mgr.GenerateToken("u1", "Pat Tester")
	require.NoError(t, err)

	claims, err := mgr.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Pat Tester", claims.DisplayName)
}

func TestVerifyExpiredToken(t *testing.T) {
	mgr := NewJWTManager("secret", -time.Minute)

	token, err := mgr.GenerateToken("u1", "Pat Tester")
	require.NoError(t, err)

	_, err = mgr.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken("u1", "Pat Tester")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	_, err := mgr.VerifyToken("not-a-token")
	assert.Error(t, err)
}
