package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("wrong password", hash))
	assert.False(t, Verify("", hash))
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashToken("token-a"))
	assert.Len(t, a, 64) // hex-encoded SHA256
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("12345678"))
	assert.False(t, Validate("1234567"))
	assert.False(t, Validate(""))
}

func TestRandom(t *testing.T) {
	a, err := Random()
	require.NoError(t, err)
	b, err := Random()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}
