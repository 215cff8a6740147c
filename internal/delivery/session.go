package delivery

import (
	"storefront/internal/delivery/middleware"

	"github.com/gin-gonic/gin"
)

func sessionID(c *gin.Context) string {
	return c.GetString(middleware.SessionIDKey)
}
