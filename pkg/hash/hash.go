// Package hash stores user passwords as bcrypt digests.
package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong is returned for passwords bcrypt would silently truncate.
var ErrTooLong = errors.New("password longer than 72 bytes")

// Cost is the work factor for new digests. Tests may lower it.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NeedsRehash reports whether digest was produced with a different cost
// than the current one.
func NeedsRehash(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	return err != nil || cost != Cost
}
