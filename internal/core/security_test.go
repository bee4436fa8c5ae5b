// AngelaMos | 2026
// security_test.go

package core

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.NotContains(t, hash, "correct-horse")

	ok, err := VerifyPassword("correct-horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsEveryHash(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "plaintext")
	assert.Error(t, err)

	_, err = VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	ok, _, err := VerifyPasswordTimingSafe("correct-horse", &hash)
	require.NoError(t, err)
	assert.True(t, ok)

	empty := ""
	for _, h := range []*string{nil, &empty} {
		ok, newHash, err := VerifyPasswordTimingSafe("dummy_password_for_timing_attack_prevention", h)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, newHash)
	}
}

func TestGenerateTemporaryPassword(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		pw, err := GenerateTemporaryPassword()
		require.NoError(t, err)

		assert.Len(t, pw, 12)
		_, err = hex.DecodeString(pw)
		assert.NoError(t, err, pw)
		assert.Equal(t, strings.ToLower(pw), pw)

		seen[pw] = true
	}

	assert.Greater(t, len(seen), 45)
}
