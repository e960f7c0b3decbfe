// Package models defines the email verification challenge.
package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ChallengeTTL is how long a verification code stays valid.
const ChallengeTTL = 10 * time.Minute

// Challenge is one outstanding email verification code. The code itself is
// never stored; only its bcrypt hash is. At most one challenge exists per
// email: issuing a new one replaces the old.
type Challenge struct {
	Email     string    `json:"email"`
	CodeHash  []byte    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateCode returns a random six-digit verification code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// NewChallenge hashes code and builds a challenge expiring ChallengeTTL
// after now.
func NewChallenge(email, code string, now time.Time) (*Challenge, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash verification code: %w", err)
	}
	return &Challenge{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: now.Add(ChallengeTTL),
		CreatedAt: now,
	}, nil
}

// Matches reports whether code is the one this challenge was issued for.
func (c *Challenge) Matches(code string) bool {
	return bcrypt.CompareHashAndPassword(c.CodeHash, []byte(code)) == nil
}

// Expired reports whether the challenge has passed its expiry at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
