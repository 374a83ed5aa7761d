package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/snipshare/internal/config"
)

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordHasher turns a plaintext password into its stored form and checks
// a candidate against it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(stored, plaintext string) error
}

var (
	_ PasswordHasher = PlainHasher{}
	_ PasswordHasher = (*BcryptHasher)(nil)
)

// NewHasher picks the hasher selected by cfg.HashPasswords.
func NewHasher(cfg config.AuthConfig) PasswordHasher {
	if cfg.HashPasswords {
		return NewBcryptHasher(cfg.BcryptCost)
	}
	return PlainHasher{}
}

// PlainHasher stores passwords unchanged. It is the default, matching the
// store's plain-text password field.
type PlainHasher struct{}

func (PlainHasher) Hash(plaintext string) (string, error) {
	return plaintext, nil
}

func (PlainHasher) Verify(stored, plaintext string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(plaintext)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// BcryptHasher hashes with bcrypt at a fixed cost.
//
// Hash format (the full output of bcrypt.GenerateFromPassword):
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (12 rounds → 2^12 iterations)
//	 version
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash rejects passwords over 72 bytes, which bcrypt would otherwise truncate.
func (p *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

func (p *BcryptHasher) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
