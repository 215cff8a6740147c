package delivery

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AddressHandler struct {
	addresses domain.AddressUseCase
	shipping  domain.ShippingUseCase
	log       *logrus.Logger
}

func NewAddressHandler(addresses domain.AddressUseCase, shipping domain.ShippingUseCase, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
		shipping:  shipping,
		log:       logger,
	}
}

func (h *AddressHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/address/lookup", h.LookupAddress)
	shipping := router.Group("/shipping")
	{
		shipping.GET("/options", h.ShippingOptions)
		shipping.PUT("", h.SelectShipping)
	}
}

type lookupRequest struct {
	PostalCode string `json:"postal_code"`
}

type selectShippingRequest struct {
	MethodID string `json:"method_id" binding:"required"`
}

func (h *AddressHandler) LookupAddress(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for address lookup: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	address, err := h.addresses.Resolve(c.Request.Context(), sessionID(c), req.PostalCode)
	if err != nil {
		respondError(c, h.log, "Failed to resolve postal code", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Address resolved successfully", address)
}

func (h *AddressHandler) ShippingOptions(c *gin.Context) {
	methods, err := h.shipping.AvailableMethods(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, "Failed to list shipping options", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Shipping options retrieved successfully", methods)
}

func (h *AddressHandler) SelectShipping(c *gin.Context) {
	var req selectShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for shipping selection: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s, err := h.shipping.Select(c.Request.Context(), sessionID(c), req.MethodID)
	if err != nil {
		respondError(c, h.log, "Failed to select shipping", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Shipping selected", newSessionView(s))
}
