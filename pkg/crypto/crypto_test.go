package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, VerifyPassword(hash, "correct horse battery staple"))
	require.False(t, VerifyPassword(hash, "wrong password"))
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken(24)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := GenerateToken(24)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
