package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/request"
	"github.com/sangkips/scanpay/internal/presentation/http/dto/response"
	"github.com/sangkips/scanpay/pkg/apperror"
)

// PaymentHandler submits confirmed purchases
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) Submit(c *gin.Context) {
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quantity, ok := req.QuantityValue()
	if !ok {
		response.Error(c, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "must be a whole number"},
		}))
		return
	}

	result, err := h.paymentService.Submit(c.Request.Context(), service.PaymentInput{
		QRCodeID: req.QRCodeID,
		Quantity: quantity,
	})
	if err != nil {
		// the payment went through even though the receipt was not stored
		if result != nil && apperror.KindOf(err) == apperror.KindStoreWriteFailed {
			response.SuccessWithWarning(c, "Payment successful", apperror.GetAppError(err).Message, result)
			return
		}
		response.Error(c, err)
		return
	}

	if result.Warning != "" {
		response.SuccessWithWarning(c, "Payment successful", result.Warning, result)
		return
	}
	response.OK(c, "Payment successful", result)
}
