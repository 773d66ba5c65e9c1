package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// operatorPattern: латинские буквы, цифры, точка, дефис и подчеркивание.
var operatorPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MinPasswordLen = 8
)

// NormalizeUsername lowercases and trims an operator login.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks an already normalized operator login.
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("username cannot be empty")
	case len(username) < MinUsernameLen:
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	case len(username) > MaxUsernameLen:
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	case !operatorPattern.MatchString(username):
		return fmt.Errorf("username can only contain lowercase letters, digits, '.', '-' and '_'")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}
