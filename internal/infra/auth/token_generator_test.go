package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"accounts/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerator_Generate(t *testing.T) {
	gen := NewTokenGeneratorWithSize(32)

	raw, hash, err := gen.Generate()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.True(t, gen.WellFormed(raw))

	sum := sha256.Sum256([]byte(raw))
	assert.Equal(t, hex.EncodeToString(sum[:]), hash)
	assert.Equal(t, hash, gen.Hash(raw))
	assert.NotEqual(t, raw, hash)
}

func TestTokenGenerator_Unique(t *testing.T) {
	gen := NewTokenGeneratorWithSize(32)
	seen := make(map[string]struct{}, 100)

	for range 100 {
		raw, _, err := gen.Generate()
		require.NoError(t, err)

		_, dup := seen[raw]
		require.False(t, dup)
		seen[raw] = struct{}{}
	}
}

func TestTokenGenerator_WellFormed(t *testing.T) {
	gen := NewTokenGeneratorWithSize(16)

	assert.True(t, gen.WellFormed(strings.Repeat("a1", 16)))
	assert.False(t, gen.WellFormed(""))
	assert.False(t, gen.WellFormed(strings.Repeat("a", 31)))
	assert.False(t, gen.WellFormed(strings.Repeat("A", 32)))
	assert.False(t, gen.WellFormed(strings.Repeat("g", 32)))
	assert.False(t, gen.WellFormed(strings.Repeat("a", 64)))
}

func TestTokenGenerator_SizeFallback(t *testing.T) {
	assert.Equal(t, defaultTokenBytes, NewTokenGeneratorWithSize(4).(*opaqueTokenGenerator).size)

	cfg := &config.Config{Auth: config.AuthConfig{TokenBytes: 24}}
	assert.Equal(t, 24, NewTokenGenerator(cfg).(*opaqueTokenGenerator).size)
}
