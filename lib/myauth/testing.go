package myauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignTestToken creates a token the way the auth service does; used by tests of
// authenticated endpoints.
func SignTestToken(secret string, userID string, validFor time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  userID + "@example.com",
		"role":   "customer",
		"exp":    time.Now().Add(validFor).Unix(),
	})
	signed, _ := token.SignedString([]byte(secret))
	return signed
}
