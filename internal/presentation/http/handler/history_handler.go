package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/request"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/response"
	"github.com/sangkips/scanpay/pkg/pagination"
)

// HistoryHandler serves the local receipt history and the server purchase list
type HistoryHandler struct {
	historyService *service.HistoryService
}

func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List handles page-based listing; without per_page every receipt is returned
func (h *HistoryHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	view, err := h.historyService.Load(c.Request.Context(), &params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Payment history retrieved", view, view.Pagination)
}

// Clear deletes every local receipt; the caller must pass confirm=true
func (h *HistoryHandler) Clear(c *gin.Context) {
	var req request.ClearHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if err := h.historyService.Clear(c.Request.Context(), req.Confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment history cleared", nil)
}

func (h *HistoryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.historyService.ExportCSV(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}
	filename := "payments-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *HistoryHandler) Server(c *gin.Context) {
	purchases, err := h.historyService.ServerHistory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Purchase history retrieved", purchases)
}
