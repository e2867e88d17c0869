package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// generateToken returns n random bytes hex-encoded. Used for activity
// access tokens, invitation tokens, and verification tokens.
func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
