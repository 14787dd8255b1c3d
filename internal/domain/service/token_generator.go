package service

// TokenGenerator produces opaque API tokens. Raw values are handed to clients;
// only their hashes are persisted.
type TokenGenerator interface {
	// Generate returns a new random raw token and its storage hash.
	Generate() (raw string, hash string, err error)

	// Hash computes the storage hash of a raw token.
	Hash(raw string) string

	// WellFormed reports whether raw has the shape of a token this generator issues.
	WellFormed(raw string) bool
}
