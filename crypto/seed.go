package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ServerSeedLength is the entropy of a server seed in bytes.
const ServerSeedLength = 32

// GenerateServerSeed returns a fresh 32-byte secret seed and its hex
// encoding. The hex form is what gets revealed to players; the hash of
// the hex form is what gets published up front.
func GenerateServerSeed() (seed string, hash string, err error) {
	buf := make([]byte, ServerSeedLength)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to read entropy: %w", err)
	}

	seed = hex.EncodeToString(buf)
	hash = HashSeed(seed)

	return seed, hash, nil
}

// HashSeed computes the SHA-256 commitment of a server seed. The
// commitment is published before any round uses the seed and must never
// change while the seed is active.
func HashSeed(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}

// VerifySeed checks a revealed server seed against its published
// commitment. A false return is an integrity violation, not a user
// error: either the platform swapped seeds or the caller's inputs are
// corrupted.
func VerifySeed(seed, hash string) bool {
	recomputed := sha256.Sum256([]byte(seed))
	return hmac.Equal([]byte(hex.EncodeToString(recomputed[:])), []byte(hash))
}
