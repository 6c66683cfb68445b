package pkg

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 14

// HashPassword is used to generate the admin password hash that the
// service reads from the environment on startup.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
