package repository

import (
	"context"

	"github.com/sangkips/scanpay/internal/domain/entity"
)

// ReceiptRepository defines the interface for the local receipt history
type ReceiptRepository interface {
	// List returns every receipt, most recent first. A missing list is empty.
	List(ctx context.Context) ([]entity.Receipt, error)
	// Prepend stores r in front of the existing list
	Prepend(ctx context.Context, r entity.Receipt) error
	// Clear deletes the whole list
	Clear(ctx context.Context) error
	Close() error
}
