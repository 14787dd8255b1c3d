package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
)

const (
	defaultTokenBytes = 32 // 64 hex chars
	minTokenBytes     = 16
)

type opaqueTokenGenerator struct {
	size int
}

// NewTokenGenerator builds a generator producing auth.tokenBytes random bytes per token.
func NewTokenGenerator(cfg *config.Config) service.TokenGenerator {
	return NewTokenGeneratorWithSize(cfg.Auth.TokenBytes)
}

// NewTokenGeneratorWithSize builds a generator; sizes below 16 bytes fall back to the default.
func NewTokenGeneratorWithSize(size int) service.TokenGenerator {
	if size < minTokenBytes {
		size = defaultTokenBytes
	}

	return &opaqueTokenGenerator{size: size}
}

// Generate returns a hex encoded random token and its SHA-256 hash.
func (g *opaqueTokenGenerator) Generate() (raw, hash string, err error) {
	buf := make([]byte, g.size)
	if _, err = rand.Read(buf); err != nil {
		return "", "", errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	raw = hex.EncodeToString(buf)

	return raw, g.Hash(raw), nil
}

// Hash returns the hex encoded SHA-256 of raw.
func (g *opaqueTokenGenerator) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// WellFormed reports whether raw is lowercase hex of the configured length.
func (g *opaqueTokenGenerator) WellFormed(raw string) bool {
	if len(raw) != g.size*2 {
		return false
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}
