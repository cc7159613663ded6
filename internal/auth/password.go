package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; changing it only affects newly stored hashes.
const bcryptCost = 12

// HashPassword derives a salted one-way digest of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored digest.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
