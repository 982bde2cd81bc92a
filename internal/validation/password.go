package validation

import (
	"errors"
	"strings"
)

// ValidatePassword rejects passwords bcrypt cannot hash faithfully.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 bytes")
	}

	return nil
}

// PasswordWeakness returns a human readable reason when the shared password
// looks easy to guess, or "" when it seems fine.
func PasswordWeakness(password string) string {
	if len(password) < 12 {
		return "shorter than 12 characters"
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "admin", "letmein",
		"welcome", "monkey", "dragon", "master", "sunshine",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return "contains a common pattern"
		}
	}

	return ""
}
