package request

import (
	"github.com/spf13/cast"

	"github.com/sangkips/scanpay/pkg/utils"
)

// ScanRequest carries the raw text decoded from a QR code
type ScanRequest struct {
	Data string `json:"data"`
}

// PaymentRequest is the confirmation screen submission. Quantity arrives as
// typed text or a number.
type PaymentRequest struct {
	QRCodeID string      `json:"qrCodeId"`
	Quantity interface{} `json:"quantity"`
}

// QuantityValue parses Quantity; typed text is read in base 10. ok is false
// for missing or non-numeric input.
func (r PaymentRequest) QuantityValue() (int, bool) {
	switch q := r.Quantity.(type) {
	case nil, bool:
		return 0, false
	case string:
		n, err := utils.ParseCount(q)
		return n, err == nil
	default:
		n, err := cast.ToIntE(q)
		return n, err == nil
	}
}

// ClearHistoryRequest confirms the destructive history clear
type ClearHistoryRequest struct {
	Confirm bool `form:"confirm"`
}
