package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Adc", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Adc", hash)
	assert.True(t, VerifyPassword(hash, "Adc"))
	assert.False(t, VerifyPassword(hash, "adc"))
	assert.False(t, VerifyPassword("not-a-hash", "Adc"))
}

func TestHashCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, hashCost(0))
	assert.Equal(t, bcrypt.DefaultCost, hashCost(bcrypt.MinCost-1))
	assert.Equal(t, bcrypt.MinCost, hashCost(bcrypt.MinCost))
	assert.Equal(t, bcrypt.MaxCost, hashCost(bcrypt.MaxCost+5))
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "ldubois", 5)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), at.Exp, 5*time.Second)

	id, err := ParseAccessToken("secret", at.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = ParseAccessToken("other", at.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsExpiredAndForeign(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	raw, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	raw, err = noExp.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "abc", "exp": time.Now().Add(time.Minute).Unix()})
	raw, err = badSub.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}
