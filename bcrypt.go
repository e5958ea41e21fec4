package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor. Raising it only affects hashes
// created afterwards; existing hashes verify at the cost they were minted
// with.
var PasswordHashCost = 12

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. Malformed hashes fail verification like any mismatch;
// nothing here panics on bad input.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// VerifyPassword is the boolean form of ComparePasswordAndHash.
func VerifyPassword(password, hash string) bool {
	return ComparePasswordAndHash(password, hash) == nil
}
