package session

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Verifier checks a credential pair against the configured admin
// identity. Pluggable so deployments can swap in a hashed-password
// implementation without touching the handlers.
type Verifier interface {
	Verify(username, password string) bool
}

// StaticCredentials verifies against a fixed username/password pair in
// constant time. The comparison never reveals which field mismatched.
type StaticCredentials struct {
	usernameSum [32]byte
	passwordSum [32]byte
}

func NewStaticCredentials(username, password string) *StaticCredentials {
	return &StaticCredentials{
		usernameSum: sha256.Sum256([]byte(username)),
		passwordSum: sha256.Sum256([]byte(password)),
	}
}

func (c *StaticCredentials) Verify(username, password string) bool {
	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))
	userOK := subtle.ConstantTimeCompare(u[:], c.usernameSum[:])
	passOK := subtle.ConstantTimeCompare(p[:], c.passwordSum[:])
	return userOK&passOK == 1
}
