package pkg

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/form3tech-oss/jwt-go"
)

var ErrBadToken = errors.New("invalid token")

// NewToken signs an HS256 token carrying user_id.
func NewToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["exp"] = time.Now().Add(ttl).Unix()
	return token.SignedString(secret)
}

// UserID extracts user_id from a parsed token.
func UserID(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrBadToken
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", ErrBadToken
	}
	return id, nil
}

// ParseToken verifies a raw token and returns its user id.
func ParseToken(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	return UserID(token)
}
