package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password1234", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "password1234", hash)
	assert.NoError(t, CheckPassword("password1234", hash))
	assert.Error(t, CheckPassword("wrong-password", hash))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("password1234", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("password1234", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateResetToken(t *testing.T) {
	raw, hashed, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 2*resetTokenBytes)
	assert.Equal(t, HashToken(raw), hashed)
	assert.NotEqual(t, raw, hashed)

	again, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, again)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
