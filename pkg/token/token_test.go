package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	signed, err := GenerateJWT("user-1", "ana@example.com", "COACH", "secret", "courtside", 5)
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "COACH", claims.Role)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, "courtside", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signed, err := GenerateJWT("user-1", "ana@example.com", "PLAYER", "secret", "", 5)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "other")
	assert.EqualError(t, err, "token signature is invalid")
}

func TestValidateRejectsExpired(t *testing.T) {
	signed, err := GenerateJWT("user-1", "ana@example.com", "PLAYER", "secret", "", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "secret")
	assert.EqualError(t, err, "token has expired")
}

func TestValidateEmpty(t *testing.T) {
	_, err := ValidateJWT("", "secret")
	assert.Error(t, err)
}
