package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Chaeeun2/alolot/errs"
)

// ErrNoCredentials is returned when neither a hash nor a password is configured.
var ErrNoCredentials = errors.New("no admin credentials configured")

// HashPassword hashes a plain password string
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Credentials holds the bcrypt hash of the admin password.
type Credentials struct {
	hash []byte
}

// NewCredentials prefers a stored bcrypt hash. A plain password is hashed
// once at startup so it is never compared in the clear.
func NewCredentials(passwordHash, password string) (Credentials, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return Credentials{}, errs.NewConfigError("ADMIN_PASSWORD_HASH", err)
		}
		return Credentials{hash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return Credentials{}, ErrNoCredentials
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{hash: []byte(hash)}, nil
}

// Check compares password with the stored hash.
func (c Credentials) Check(password string) error {
	if len(c.hash) == 0 || password == "" {
		return errs.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		return errs.NewInvalidCredentialsError()
	}
	return nil
}
