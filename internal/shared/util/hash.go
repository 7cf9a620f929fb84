package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a path-safe identifier for a user ID, so object keys
// never carry the raw principal.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
