package admin

import "errors"

// DefaultPassword is the dashboard password when none is configured.
const DefaultPassword = "admin password"

// ErrIncorrectPassword is returned by Gate.Login on a mismatch.
var ErrIncorrectPassword = errors.New("incorrect password")

// Gate is a fixed-string check in front of the dashboard. It is not access control.
type Gate struct {
	Password string
}

// NewGate returns a Gate; an empty password falls back to DefaultPassword.
func NewGate(password string) Gate {
	if password == "" {
		password = DefaultPassword
	}
	return Gate{Password: password}
}

// Login compares the submitted password with the configured one.
func (g Gate) Login(password string) error {
	if password != g.Password {
		return ErrIncorrectPassword
	}
	return nil
}
