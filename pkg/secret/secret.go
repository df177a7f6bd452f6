// Package secret turns user secrets into the form kept by the credential
// store and compares presented secrets against it.
package secret

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemePlain  = "plain"
)

// Hasher hashes and verifies secrets.
type Hasher interface {
	Hash(secret string) (string, error)
	// Compare reports whether secret matches stored.
	Compare(stored, secret string) bool
}

// New returns the hasher registered under scheme.
func New(scheme string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeBcrypt:
		return NewBcrypt(bcryptCost), nil
	case SchemePlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("secret: unknown scheme %q", scheme)
	}
}

// Bcrypt stores salted bcrypt hashes. Secrets are reduced with SHA-256 first,
// so bcrypt's 72-byte input limit never truncates or rejects a secret.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. Costs outside bcrypt's range fall back
// to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword(prehash(secret), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Compare(stored, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), prehash(secret)) == nil
}

// prehash encodes the digest so no NUL byte reaches bcrypt.
func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum[:])
	return out
}

// Plain keeps secrets as given. It exists for stores populated by the legacy
// service, which compared plaintext secrets.
type Plain struct{}

func (Plain) Hash(secret string) (string, error) { return secret, nil }

func (Plain) Compare(stored, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}
