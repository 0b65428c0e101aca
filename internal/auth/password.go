// Package auth implementa autenticación del personal: hashes de password,
// sesiones de cookie respaldadas por cache y tokens JWT para la API de
// administración.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword genera un hash bcrypt del password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compara un password contra su hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
