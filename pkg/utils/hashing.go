package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var specialCharRegex = regexp.MustCompile(`[^A-Za-z0-9]`)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

// PasswordValid enforces the signup/reset policy: at least 6 characters with
// at least one special character.
func PasswordValid(password string) bool {
	return len(password) >= 6 && specialCharRegex.MatchString(password)
}

// GenerateSecureToken returns a random hex string; used for setup/reset links
// and placeholder passwords on accounts created by payment or admin flows.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
