package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the tournament operator. There is a single
// operator credential, configured as a bcrypt hash; spectators use the
// read-only endpoints without a token.
type AuthService interface {
	VerifyOperator(password string) error
}

type authService struct {
	passwordHash []byte
}

func NewAuthService(passwordHash string) AuthService {
	return &authService{passwordHash: []byte(passwordHash)}
}

func (s *authService) VerifyOperator(password string) error {
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrAuthInvalidCredentials
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}

// HashOperatorPassword produces a bcrypt hash suitable for the
// ORGANIZER_PASSWORD_HASH setting.
func HashOperatorPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
