// Package auth issues and validates session tokens and decides who counts
// as an administrator. Authentication itself (password checks, SSO) is the
// identity provider's job; the server only consumes the resulting identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pelicoin/ledger-server/internal/common"
)

// Claims carries the student's login id and email alongside the registered
// claims.
type Claims struct {
	jwt.RegisteredClaims
	LoginID string
	Email   string
}

func GenerateToken(loginID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		LoginID: loginID,
		Email:   email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}
