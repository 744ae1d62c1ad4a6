// utils/auth.go
package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// OperatorKey is the gin context key holding the authenticated subject.
const OperatorKey = "operator"

// TokenVerifier turns a bearer token back into the subject it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Hash password
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Auth middleware
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			RespondWithError(c, http.StatusUnauthorized, "Token inválido")
			return
		}

		subject, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			RespondWithError(c, http.StatusUnauthorized, "Token inválido")
			return
		}

		c.Set(OperatorKey, subject)
		c.Next()
	}
}
