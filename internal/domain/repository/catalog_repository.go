package repository

import (
	"context"
	"errors"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/enum"
)

// CatalogRepository is the contract of the remote product/purchase service.
// Transport failures come back as errors; answers the service gives on
// purpose come back as tagged outcomes.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	Popularity(ctx context.Context) ([]entity.Popularity, error)
	ResolveScan(ctx context.Context, qrCodeID string) (*ScanOutcome, error)
	Pay(ctx context.Context, qrCodeID string, quantity int) (*PaymentOutcome, error)
	PurchaseHistory(ctx context.Context) ([]entity.ServerPurchase, error)
}

// ScanOutcome is either OutcomeSuccess with a Product or OutcomeNotFound with
// an optional Message
type ScanOutcome struct {
	Kind    enum.OutcomeKind
	Product *entity.ProductRef
	Message string
}

// PaymentOutcome is either OutcomeSuccess with a Bill or OutcomeRejected with
// an optional Message
type PaymentOutcome struct {
	Kind    enum.OutcomeKind
	Bill    *entity.Bill
	Message string
}

// Transport failures reported by a CatalogRepository. Implementations wrap
// the cause, so test with errors.Is.
var (
	ErrCatalogUnavailable = errors.New("catalog service unavailable")
	ErrCatalogTimeout     = errors.New("catalog service timed out")
)
