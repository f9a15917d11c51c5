package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost balances brute-force resistance and login latency.
const bcryptCost = 10

// HashPassword derives a one-way, salted hash from the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Any failure, including
// a corrupt hash, is reported as false.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
