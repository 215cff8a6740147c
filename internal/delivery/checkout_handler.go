package delivery

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CheckoutHandler struct {
	useCase domain.CheckoutUseCase
	log     *logrus.Logger
}

func NewCheckoutHandler(uc domain.CheckoutUseCase, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CheckoutHandler) RegisterRoutes(router gin.IRouter) {
	checkout := router.Group("/checkout")
	{
		checkout.GET("", h.GetCheckout)
		checkout.POST("", h.Submit)
		checkout.POST("/refresh", h.Refresh)
		checkout.POST("/restart", h.Restart)
	}
}

func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	s, err := h.useCase.GetCheckout(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, "Failed to load checkout", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Checkout retrieved successfully", newSessionView(s))
}

func (h *CheckoutHandler) Submit(c *gin.Context) {
	var form domain.BuyerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.log.Warnf("Failed to bind JSON for checkout: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sid := sessionID(c)
	h.log.Infof("Processing checkout for session %s (%s)", sid, form.PaymentMethod)
	s, err := h.useCase.Submit(c.Request.Context(), sid, form)
	if err != nil {
		respondError(c, h.log, "Failed to place order", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Order placed successfully", newSessionView(s))
}

func (h *CheckoutHandler) Refresh(c *gin.Context) {
	s, err := h.useCase.Refresh(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, "Failed to refresh payment status", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Payment status refreshed", newSessionView(s))
}

func (h *CheckoutHandler) Restart(c *gin.Context) {
	s, err := h.useCase.Restart(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, "Failed to restart checkout", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Checkout restarted", newSessionView(s))
}
