package delivery

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	useCase domain.CatalogUseCase
	log     *logrus.Logger
}

func NewCatalogHandler(uc domain.CatalogUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/slugs", h.ListProductSlugs)
		products.GET("/:slug", h.GetProductBySlug)
	}
	router.GET("/resellers", h.ListResellers)
	router.GET("/shipping-methods", h.ListShippingMethods)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list products", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *CatalogHandler) ListProductSlugs(c *gin.Context) {
	slugs, err := h.useCase.ListProductSlugs(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list product slugs", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product slugs retrieved successfully", slugs)
}

func (h *CatalogHandler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	product, cached, err := h.useCase.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.log, "Failed to retrieve product", err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *CatalogHandler) ListResellers(c *gin.Context) {
	resellers, err := h.useCase.ListResellers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list resellers", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Resellers retrieved successfully", resellers)
}

func (h *CatalogHandler) ListShippingMethods(c *gin.Context) {
	methods, err := h.useCase.ListShippingMethods(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list shipping methods", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Shipping methods retrieved successfully", methods)
}
