package delivery

import (
	"time"

	"storefront/internal/delivery/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	AllowedOrigins    []string
	OperatorTokenHash string
	SessionStore      sessions.Store
	NewSessionID      func() string
}

type Handlers struct {
	Health    *HealthHandler
	Catalog   *CatalogHandler
	Cart      *CartHandler
	Address   *AddressHandler
	Checkout  *CheckoutHandler
	Webhook   *WebhookHandler
	Dashboard *DashboardHandler
}

// NewRouter mounts every route under /api. Shopper routes get the session
// cookie, dashboard routes get operator auth, and the webhook gets neither.
func NewRouter(cfg RouterConfig, h Handlers, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"X-Cache", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	h.Health.RegisterRoutes(api)
	h.Catalog.RegisterRoutes(api)
	h.Webhook.RegisterRoutes(api)

	shopper := api.Group("")
	shopper.Use(middleware.SessionCookie(cfg.SessionStore, cfg.NewSessionID, logger))
	h.Cart.RegisterRoutes(shopper)
	h.Address.RegisterRoutes(shopper)
	h.Checkout.RegisterRoutes(shopper)

	operator := api.Group("")
	operator.Use(middleware.OperatorAuth(cfg.OperatorTokenHash, logger))
	h.Dashboard.RegisterRoutes(operator)

	return router
}
