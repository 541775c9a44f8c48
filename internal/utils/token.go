package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// NewSessionToken returns a fresh refresh token and its storage digest. Only
// the digest is persisted; the raw token goes to the client once.
func NewSessionToken(size int) (token string, digest string, err error) {
	buffer := make([]byte, size)
	if _, err := rand.Read(buffer); err != nil {
		return "", "", err
	}
	token = base64.RawURLEncoding.EncodeToString(buffer)
	return token, HashSessionToken(token), nil
}

// HashSessionToken is the lookup key for a session row. Unsalted SHA-256 is
// enough because the input is high-entropy random, not a password.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NormalizeEmail lowercases and trims so the same mailbox always maps to the
// same user and code records.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
