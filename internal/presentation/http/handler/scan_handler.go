package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/request"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/response"
)

// ScanHandler exposes the scan latch to the camera screen
type ScanHandler struct {
	scanService *service.ScanService
}

func NewScanHandler(scanService *service.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// Scan resolves the decoded QR text to a product
func (h *ScanHandler) Scan(c *gin.Context) {
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.scanService.Scan(c.Request.Context(), req.Data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product found", product)
}

// Reset is the "scan again" action
func (h *ScanHandler) Reset(c *gin.Context) {
	h.scanService.Reset()
	response.OK(c, "Ready to scan", gin.H{"state": h.scanService.State()})
}

func (h *ScanHandler) State(c *gin.Context) {
	response.OK(c, "Scan state retrieved", gin.H{"state": h.scanService.State()})
}
