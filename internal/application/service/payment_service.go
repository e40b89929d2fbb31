package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/enum"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/apperror"
)

// PaymentInput is what the confirmation screen submits
type PaymentInput struct {
	QRCodeID string `json:"qrCodeId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// PaymentResult is an accepted payment. Warning is set when a follow-up step
// (receipt printing) failed without undoing the payment.
type PaymentResult struct {
	Bill    *entity.Bill    `json:"bill"`
	Receipt *entity.Receipt `json:"receipt"`
	Warning string          `json:"warning,omitempty"`
}

// ReceiptPrinter prints a stored receipt
type ReceiptPrinter interface {
	Print(ctx context.Context, r entity.Receipt) error
}

type PaymentService struct {
	catalog  repository.CatalogRepository
	receipts repository.ReceiptRepository
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
	printer  ReceiptPrinter
}

func NewPaymentService(
	catalog repository.CatalogRepository,
	receipts repository.ReceiptRepository,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		catalog:  catalog,
		receipts: receipts,
		validate: newValidator(),
		log:      log.Named("payment"),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for receipt dates
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

// WithPrinter prints every stored receipt through p
func (s *PaymentService) WithPrinter(p ReceiptPrinter) *PaymentService {
	s.printer = p
	return s
}

// Submit sends one payment request and records the receipt locally. When the
// payment was accepted but the receipt could not be stored, the result is
// returned together with a StoreWriteFailed error.
func (s *PaymentService) Submit(ctx context.Context, in PaymentInput) (*PaymentResult, error) {
	// blank ids are rejected here; the id itself is sent as entered
	check := in
	check.QRCodeID = strings.TrimSpace(in.QRCodeID)
	if err := s.validate.Struct(check); err != nil {
		return nil, apperror.NewValidationError(fieldErrors(err))
	}

	outcome, err := s.catalog.Pay(ctx, in.QRCodeID, in.Quantity)
	if err != nil {
		s.log.Warn("payment request failed", zap.String("qr_code_id", in.QRCodeID), zap.Error(err))
		return nil, catalogError(err)
	}
	if outcome.Kind != enum.OutcomeSuccess || outcome.Bill == nil {
		s.log.Info("payment rejected", zap.String("qr_code_id", in.QRCodeID), zap.String("message", outcome.Message))
		return nil, apperror.With(apperror.ErrPaymentRejected, outcome.Message, nil)
	}

	bill := outcome.Bill
	receipt := entity.NewReceipt(bill, in.Quantity, s.now())
	result := &PaymentResult{Bill: bill, Receipt: &receipt}

	if err := s.receipts.Prepend(ctx, receipt); err != nil {
		s.log.Error("payment accepted but receipt not stored",
			zap.String("item", bill.Item),
			zap.Float64("total", bill.Total),
			zap.Error(err),
		)
		return result, apperror.With(apperror.ErrStoreWriteFailed, "", err)
	}

	s.log.Info("payment completed",
		zap.String("item", bill.Item),
		zap.Int("quantity", in.Quantity),
		zap.Float64("total", bill.Total),
		zap.String("status", bill.Status),
	)

	if s.printer != nil {
		if err := s.printer.Print(ctx, receipt); err != nil {
			s.log.Warn("receipt printing failed", zap.Error(err))
			result.Warning = "Payment successful but printing failed"
		}
	}
	return result, nil
}

func fieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "gt":
			msg = "must be greater than " + fe.Param()
		}
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// newValidator reports fields by their json names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
