package delivery

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	useCase domain.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc domain.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.POST("/items/:id/increment", h.IncrementQuantity)
		cart.POST("/items/:id/decrement", h.DecrementQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)
	}
}

type addItemRequest struct {
	Slug     string `json:"slug"     binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	s, err := h.useCase.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, "Failed to load cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", newCartView(s.Cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for add to cart: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s, err := h.useCase.AddItem(c.Request.Context(), sessionID(c), req.Slug, req.Quantity)
	if err != nil {
		respondError(c, h.log, "Failed to add item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Item added to cart", newCartView(s.Cart))
}

func (h *CartHandler) IncrementQuantity(c *gin.Context) {
	s, err := h.useCase.IncrementQuantity(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to update cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart updated", newCartView(s.Cart))
}

func (h *CartHandler) DecrementQuantity(c *gin.Context) {
	s, err := h.useCase.DecrementQuantity(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to update cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart updated", newCartView(s.Cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	s, err := h.useCase.RemoveItem(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to remove item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Item removed from cart", newCartView(s.Cart))
}
