package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		a, err := GenerateToken(size)
		require.NoError(t, err)
		b, err := GenerateToken(size)
		require.NoError(t, err)

		require.NotEmpty(t, a)
		require.NotEqual(t, a, b, "tokens should be unique")
	}

	require.Len(t, mustToken(t, TokenSize256), 43)
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprint(t *testing.T) {
	require.Equal(t, Fingerprint("token-1"), Fingerprint("token-1"), "fingerprint should be deterministic")
	require.NotEqual(t, Fingerprint("token-1"), Fingerprint("token-2"))
	require.Len(t, Fingerprint("token-1"), 12)
}

func TestLoadOrGeneratePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second load must return the persisted value, not a new one.
	second, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadOrGeneratePepper_Disabled(t *testing.T) {
	pepper, err := LoadOrGeneratePepper("")
	require.NoError(t, err)
	require.Empty(t, pepper)
}

func mustToken(t *testing.T, size int) string {
	t.Helper()
	tok, err := GenerateToken(size)
	require.NoError(t, err)
	return tok
}
