package delivery

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	useCase domain.DashboardUseCase
	log     *logrus.Logger
}

func NewDashboardHandler(uc domain.DashboardUseCase, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes expects router to already carry the operator auth middleware.
func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/orders", h.ListOrders)
		dashboard.GET("/orders/:id", h.GetOrderDetail)
		dashboard.GET("/orders/:id/items", h.GetOrderItems)
		dashboard.POST("/orders/:id/deliver", h.MarkDelivered)
		dashboard.GET("/addresses/:id", h.GetClientInfo)
	}
}

func (h *DashboardHandler) ListOrders(c *gin.Context) {
	orders, err := h.useCase.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list orders", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *DashboardHandler) GetOrderDetail(c *gin.Context) {
	detail, err := h.useCase.GetOrderDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to retrieve order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", detail)
}

func (h *DashboardHandler) GetOrderItems(c *gin.Context) {
	items, err := h.useCase.GetOrderItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to retrieve order items", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order items retrieved successfully", items)
}

func (h *DashboardHandler) GetClientInfo(c *gin.Context) {
	address, err := h.useCase.GetClientInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to retrieve client info", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Client info retrieved successfully", address)
}

func (h *DashboardHandler) MarkDelivered(c *gin.Context) {
	id := c.Param("id")
	orders, err := h.useCase.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to mark order delivered", err)
		return
	}
	h.log.Infof("Order %s marked delivered", id)
	SuccessResponse(c, http.StatusOK, "Order marked as delivered", orders)
}
