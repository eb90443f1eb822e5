package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator validates admin credentials.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// Compile-time check that Credentials implements Authenticator.
var _ Authenticator = (*Credentials)(nil)

// Credentials authenticates against a single configured admin account.
// When a bcrypt hash is set it takes precedence over the plain password.
type Credentials struct {
	username     string
	password     string
	passwordHash string
}

// NewCredentials builds an Authenticator from configuration secrets.
func NewCredentials(username, password, passwordHash string) *Credentials {
	return &Credentials{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
	}
}

// Authenticate reports whether the supplied pair matches the configured
// admin credential. Comparisons are constant-time.
func (c *Credentials) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1

	if c.passwordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password))
		return userOK && err == nil
	}

	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	return userOK && passOK
}
