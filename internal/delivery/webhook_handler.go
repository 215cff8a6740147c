package delivery

import (
	"crypto/subtle"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const WebhookSecretHeader = "X-Webhook-Secret"

type WebhookHandler struct {
	useCase domain.PaymentUseCase
	secret  string
	log     *logrus.Logger
}

func NewWebhookHandler(uc domain.PaymentUseCase, secret string, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		useCase: uc,
		secret:  secret,
		log:     logger,
	}
}

func (h *WebhookHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/webhooks/payments", h.PaymentNotification)
}

type paymentNotification struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Status        string `json:"status"         binding:"required"`
}

func (h *WebhookHandler) PaymentNotification(c *gin.Context) {
	given := c.GetHeader(WebhookSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		h.log.Warnf("Rejected payment notification from %s: bad secret", c.ClientIP())
		ErrorResponse(c, http.StatusUnauthorized, "Invalid webhook secret")
		return
	}

	var req paymentNotification
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for payment notification: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.HandleNotification(c.Request.Context(), req.TransactionID, req.Status)
	if err != nil {
		respondError(c, h.log, "Failed to apply payment notification", err)
		return
	}
	if order == nil {
		SuccessResponse(c, http.StatusOK, "Notification acknowledged", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Payment confirmed", gin.H{"order_id": order.ID, "status": order.Status})
}
