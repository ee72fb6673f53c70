package utils

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// PasswordCost is the bcrypt work factor for stored passwords
const PasswordCost = 10

// Accepted password lengths in bytes; bcrypt cannot hash more than 72
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// HashPassword returns a salted bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password with a stored hash in constant time
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
