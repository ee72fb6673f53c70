package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	tok, issued, err := GenerateJWT("user-1", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := ParseJWT(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok, _, err := GenerateJWT("user-1", "user", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(tok, "wrong")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	tok, _, err := GenerateJWT("user-1", "user", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(tok, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWT_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseJWT(tok, testSecret)
	assert.Error(t, err)
}

func TestParseJWT_MissingUser(t *testing.T) {
	tok, _, err := GenerateJWT("", "user", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(tok, testSecret)
	assert.Error(t, err)
}
