package auth

import (
	"github.com/alexedwards/argon2id"
)

// AdminSecret verifies the single admin password. The plain password is
// hashed once at startup and never kept.
type AdminSecret struct {
	hash string
}

// NewAdminSecret prefers a precomputed argon2id hash over a plain password.
// With neither set the secret is unconfigured and every check fails.
func NewAdminSecret(password, hash string) (*AdminSecret, error) {
	if hash != "" {
		if _, _, _, err := argon2id.DecodeHash(hash); err != nil {
			return nil, err
		}
		return &AdminSecret{hash: hash}, nil
	}
	if password == "" {
		return &AdminSecret{}, nil
	}
	h, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return nil, err
	}
	return &AdminSecret{hash: h}, nil
}

func (a *AdminSecret) Configured() bool {
	return a != nil && a.hash != ""
}

// Verify compares in constant time.
func (a *AdminSecret) Verify(password string) (bool, error) {
	if !a.Configured() {
		return false, nil
	}
	return argon2id.ComparePasswordAndHash(password, a.hash)
}
