package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const resetTokenBytes = 32

// newResetToken returns the raw secret that goes into the email link
// and the SHA-256 hex that goes into the database. Only the hash is
// ever stored; the hash is deterministic so redemption can look the
// row up by it.
func newResetToken() (secret, hash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	secret = base64.RawURLEncoding.EncodeToString(buf)
	return secret, hashResetToken(secret), nil
}

func hashResetToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
