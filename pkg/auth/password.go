package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the complexity rules used by the
// Google signup-completion flow. Plain registration only enforces the
// length minimum.
func ValidatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	checks := []struct {
		ok   bool
		want string
	}{
		{len(password) >= 8, "at least 8 characters"},
		{hasUpper, "at least 1 uppercase letter"},
		{hasLower, "at least 1 lowercase letter"},
		{hasDigit, "at least 1 digit"},
		{hasSpecial, "at least 1 special character"},
	}

	var failures []string
	for _, c := range checks {
		if !c.ok {
			failures = append(failures, c.want)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("password must contain %s", strings.Join(failures, ", "))
	}
	return nil
}
