// Package auth issues and verifies the bearer tokens that gate mutating
// endpoints. A token may carry an employee id, which the order engine uses
// to attribute placements.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 72 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

func NewToken(secret []byte, userID int64, email string, employeeID *int64) (string, error) {
	claims := Claims{
		UserID:     userID,
		Email:      email,
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
