package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTokenTTL bounds how long a device session stays signed in before the
// client must re-authenticate.
const sessionTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

var jwtSecret []byte

// InitJWT sets the HMAC secret used to sign session tokens.
func InitJWT(secret string) {
	if secret == "" {
		panic("jwt secret is empty")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a session token carrying the user id.
func GenerateJWT(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(sessionTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseJWT validates a session token and returns the user id it carries.
// Expiry and not-before are enforced by the parser.
func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(userID), nil
}
