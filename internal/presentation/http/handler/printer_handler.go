package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.Status(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// PrintReceipt prints the receipt at a history position (0 is the latest).
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt index")
		return
	}

	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), index)
	if err != nil {
		// If receipt was found but printing failed, return receipt with warning
		if receipt != nil {
			response.SuccessWithWarning(c, "Receipt generated but printing failed", err.Error(), gin.H{
				"receipt": receipt,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
