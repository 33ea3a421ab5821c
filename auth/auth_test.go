package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalResolverRoundTrip(t *testing.T) {
	resolver := NewLocalResolver([]byte("test-secret"))

	token, err := resolver.CreateToken(Identity{
		UID:         "ext|abc123",
		Email:       "jo@example.com",
		DisplayName: "Jo",
	})
	require.NoError(t, err)

	identity, err := resolver.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ext|abc123", identity.UID)
	assert.Equal(t, "jo@example.com", identity.Email)
	assert.Equal(t, "Jo", identity.DisplayName)
}

func TestLocalResolverRejectsGarbage(t *testing.T) {
	resolver := NewLocalResolver([]byte("test-secret"))

	_, err := resolver.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalResolverRejectsWrongSecret(t *testing.T) {
	minter := NewLocalResolver([]byte("secret-a"))
	resolver := NewLocalResolver([]byte("secret-b"))

	token, err := minter.CreateToken(Identity{UID: "ext|abc123"})
	require.NoError(t, err)

	_, err = resolver.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalResolverRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	resolver := NewLocalResolver(secret)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ext|abc123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	tokenString, err := expired.SignedString(secret)
	require.NoError(t, err)

	_, err = resolver.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalResolverRejectsMissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	resolver := NewLocalResolver(secret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = resolver.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
