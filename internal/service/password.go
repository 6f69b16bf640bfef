package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*-_=+"

var ErrInvalidPasswordLength = errors.New("password length must be positive")

// HashPassword genera un hash bcrypt con sal; dos llamadas con el mismo
// plaintext producen hashes distintos y ambos verifican.
func HashPassword(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashBytes), nil
}

// VerifyPassword compara el hash almacenado contra el candidato. Una
// contraseña equivocada devuelve (false, nil); solo un hash almacenado
// corrupto produce error.
func VerifyPassword(storedHash, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("malformed password hash: %w", err)
}

// GeneratePassword devuelve una contraseña aleatoria de exactamente
// length caracteres, usando crypto/rand sobre un alfabeto mixto.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidPasswordLength
	}

	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		sb.WriteByte(passwordAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
