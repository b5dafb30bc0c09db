package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// VerificationTokenBytes is the entropy of email verification tokens
	VerificationTokenBytes = 32

	// ResetTokenBytes is the entropy of password reset tokens
	ResetTokenBytes = 32
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates an opaque random token of numBytes entropy,
// encoded with the URL-safe base64 alphabet so it can be embedded in links.
func GenerateToken(numBytes int) (string, error) {
	bytes := make([]byte, numBytes)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateVerificationToken generates an email verification token
func GenerateVerificationToken() (string, error) {
	return GenerateToken(VerificationTokenBytes)
}

// GenerateResetToken generates a password reset token
func GenerateResetToken() (string, error) {
	return GenerateToken(ResetTokenBytes)
}
