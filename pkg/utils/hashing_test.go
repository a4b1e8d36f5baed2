package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordValid(t *testing.T) {
	assert.True(t, PasswordValid("abc!de"))
	assert.True(t, PasswordValid("longer password with spaces"))
	assert.False(t, PasswordValid("a!b"))	// too short
	assert.False(t, PasswordValid("abcdef"))	// no special character
	assert.False(t, PasswordValid("Abc123"))	// still alphanumeric only
	assert.True(t, PasswordValid("Abc12#"))
}

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("secret!pw")
	require.NoError(t, err)
	assert.NotEqual(t, "secret!pw", hash)

	assert.NoError(t, ComparePasswords(hash, "secret!pw"))
	assert.Error(t, ComparePasswords(hash, "wrong!pw"))
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64) // hex encoded
}
