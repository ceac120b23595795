package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt. The result can be used as
// the configured admin password in place of the plain text.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// IsBcryptHash reports whether s looks like a bcrypt hash.
func IsBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Credential is the single configured admin secret.
type Credential struct {
	secret string
}

// NewCredential wraps the configured admin password, plain or bcrypt.
func NewCredential(secret string) Credential {
	return Credential{secret: secret}
}

// Configured reports whether any secret is set.
func (c Credential) Configured() bool {
	return c.secret != ""
}

// Check reports whether submitted matches the secret exactly. An
// unconfigured secret never matches.
func (c Credential) Check(submitted string) bool {
	if c.secret == "" || submitted == "" {
		return false
	}
	if IsBcryptHash(c.secret) {
		return bcrypt.CompareHashAndPassword([]byte(c.secret), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.secret), []byte(submitted)) == 1
}
