package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken returns a 128-bit random hex token, used as the
// server-side session identifier.
func GenerateToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
