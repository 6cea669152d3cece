package service

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/retailops/user-management/internal/core/domain"
)

// Allowed characters: letters, digits and a small symbol allow-list. Length
// and composition are checked separately since Go's regexp has no lookahead.
var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)

// ValidatePassword is the fail-fast strength gate: minimum length 8, at least
// one letter and one digit, charset restricted to the allow-list. It returns
// domain.ErrMalformedPassword on violation and is a pure function — safe to
// call from any number of concurrent requests.
func ValidatePassword(password string) error {
	if !passwordCharset.MatchString(password) {
		return domain.ErrMalformedPassword
	}

	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.ErrMalformedPassword
	}
	return nil
}

// BcryptHasher implements ports.PasswordHasher with an adaptive hash and a
// per-call random salt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(rawPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports a mismatch as domain.ErrInvalidCredential rather than a
// boolean: the sole caller always short-circuits on mismatch.
func (h *BcryptHasher) Verify(rawPassword, hash string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) != nil {
		return domain.ErrInvalidCredential
	}
	return nil
}
