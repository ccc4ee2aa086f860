// marciomma | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("a-reasonable-password")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("a-reasonable-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("a-different-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-an-encoded-hash")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafeMissingHash(t *testing.T) {
	ok, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	empty := ""
	ok, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordTimingSafeWithHash(t *testing.T) {
	hash, err := HashPassword("a-reasonable-password")
	require.NoError(t, err)

	ok, err := VerifyPasswordTimingSafe("a-reasonable-password", &hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPasswordTimingSafe("a-different-password", &hash)
	require.NoError(t, err)
	assert.False(t, ok)
}
