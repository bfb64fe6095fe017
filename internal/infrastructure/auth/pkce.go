package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// generatePKCEParams returns an RFC 7636 verifier and its S256 challenge.
func generatePKCEParams() (codeVerifier, codeChallenge string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	codeVerifier = base64.RawURLEncoding.EncodeToString(buf)
	codeChallenge = pkceChallenge(codeVerifier)
	return codeVerifier, codeChallenge, nil
}

func pkceChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
