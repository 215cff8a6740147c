package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// OperatorAuth guards the dashboard. The bearer token is compared against a
// bcrypt hash so the plain token never sits in configuration. An empty hash
// rejects every request.
func OperatorAuth(tokenHash string, log *logrus.Logger) gin.HandlerFunc {
	hash := []byte(tokenHash)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		rawToken := parts[1]
		if rawToken == "" || len(hash) == 0 {
			log.Warn("Middleware: Bearer token is empty or no operator token is configured")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if err := bcrypt.CompareHashAndPassword(hash, []byte(rawToken)); err != nil {
			log.Warnf("Middleware: Operator token rejected from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access restricted to the store operator"})
			return
		}

		c.Set("operator", true)
		c.Next()
	}
}
