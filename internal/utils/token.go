package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/nodehq/node-admin-api/internal/constants"
)

// GenerateInvitationToken returns a cryptographically random, hex-encoded
// invitation token.
func GenerateInvitationToken() (string, error) {
	bytes := make([]byte, constants.InvitationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateAPIKey returns a new plaintext API key and the SHA-256 hash that
// gets persisted. The plaintext is shown to the caller once.
func GenerateAPIKey() (plaintext string, hashed string, err error) {
	bytes := make([]byte, constants.APIKeyBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plaintext = constants.APIKeyPrefix + hex.EncodeToString(bytes)
	return plaintext, HashAPIKey(plaintext), nil
}

// HashAPIKey hashes a plaintext API key for storage or lookup.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
