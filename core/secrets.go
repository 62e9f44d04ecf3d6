package core

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SecretHasher hashes client secrets before they reach storage.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(hashed string, secret string) (bool, error)
}

type BcryptSecretHasher struct {
	Cost int
}

func (h BcryptSecretHasher) Hash(secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", InvalidArgument("client_secret", ConstraintNotBlank, "client_secret must not be blank")
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports false for a mismatch and only errors on malformed hashes.
func (BcryptSecretHasher) Verify(hashed string, secret string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
