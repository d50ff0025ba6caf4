package services

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with bcrypt. The plaintext is
// never logged or stored.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches digest. Any failure,
// including a malformed digest, reads as a mismatch.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
