package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateParseRoundtrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	tok, err := tokens.Create("c1", false)
	require.NoError(t, err)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.Subject)
	assert.False(t, claims.Admin)

	admin, err := tokens.Create("staff", true)
	require.NoError(t, err)
	claims, err = tokens.Parse(admin)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewTokens("secret-a", time.Hour).Create("c1", true)
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	_, err := tokens.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	// NewTokens floors non-positive TTLs, so build the expired signer directly
	expired := &Tokens{secret: []byte("secret"), ttl: -time.Minute}
	tok, err := expired.Create("c1", false)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
