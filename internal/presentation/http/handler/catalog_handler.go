package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/response"
)

// CatalogHandler serves the product list and the store map
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Home lists products with their popularity
func (h *CatalogHandler) Home(c *gin.Context) {
	cards, err := h.catalogService.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", cards)
}

func (h *CatalogHandler) StoreMap(c *gin.Context) {
	slots, err := h.catalogService.StoreMap(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Store map retrieved successfully", slots)
}
