package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/apperror"
	"github.com/sangkips/scanpay/pkg/pagination"
)

func seed(t *testing.T, receipts repository.ReceiptRepository, list ...entity.Receipt) {
	t.Helper()
	// Prepend reverses, so seed oldest first
	for i := len(list) - 1; i >= 0; i-- {
		require.NoError(t, receipts.Prepend(context.Background(), list[i]))
	}
}

func TestLoadEmptyHistory(t *testing.T) {
	svc := NewHistoryService(newReceipts(t), &fakeCatalog{}, zap.NewNop())

	view, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.NotNil(t, view.Items)
	assert.Equal(t, 0.0, view.Total)
	assert.Equal(t, "0.00", view.TotalText)
}

func TestLoadSumsTolerantly(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts,
		entity.Receipt{Name: "Milk", Price: "10.00", Quantity: 1, Date: "2024-05-01T10:30:00.000Z"},
		entity.Receipt{Name: "", Price: "abc", Quantity: 1, Date: "yesterday-ish"},
		entity.Receipt{Name: "Tea", Price: "5.50", Quantity: 2, Date: ""},
	)
	svc := NewHistoryService(receipts, &fakeCatalog{}, zap.NewNop()).WithLocation(time.UTC)

	view, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 3)
	assert.InDelta(t, 15.50, view.Total, 1e-9)
	assert.Equal(t, "15.50", view.TotalText)

	assert.Equal(t, "Milk", view.Items[0].Name)
	assert.Equal(t, "01 May 2024, 10:30", view.Items[0].DateLabel)
	assert.Equal(t, entity.UnnamedItem, view.Items[1].Name)
	assert.Equal(t, "0.00", view.Items[1].Price)
	assert.Equal(t, UnknownDate, view.Items[1].DateLabel)
	assert.Equal(t, UnknownDate, view.Items[2].DateLabel)
}

func TestLoadIsIdempotent(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts,
		entity.Receipt{Name: "Milk", Price: "₹12.3abc"},
		entity.Receipt{Name: "Tea", Price: "free"},
	)
	svc := NewHistoryService(receipts, &fakeCatalog{}, zap.NewNop())

	first, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	second, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
	assert.InDelta(t, 12.3, first.Total, 1e-9)
}

func TestLoadPageKeepsFullTotal(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts,
		entity.Receipt{Name: "A", Price: "1.00"},
		entity.Receipt{Name: "B", Price: "2.00"},
		entity.Receipt{Name: "C", Price: "3.00"},
	)
	svc := NewHistoryService(receipts, &fakeCatalog{}, zap.NewNop())

	view, err := svc.Load(context.Background(), &pagination.PaginationParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "C", view.Items[0].Name)
	assert.InDelta(t, 6.0, view.Total, 1e-9)
	assert.Equal(t, 2, view.Pagination.TotalPages)
}

func TestLoadReadFailure(t *testing.T) {
	svc := NewHistoryService(brokenReceipts{}, &fakeCatalog{}, zap.NewNop())
	_, err := svc.Load(context.Background(), nil)
	assert.Equal(t, apperror.KindStoreWriteFailed, apperror.KindOf(err))
}

func TestClearRequiresConfirmation(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts, entity.Receipt{Name: "Milk", Price: "10.00"})
	svc := NewHistoryService(receipts, &fakeCatalog{}, zap.NewNop())

	err := svc.Clear(context.Background(), false)
	assert.ErrorIs(t, err, apperror.ErrConfirmationRequired)
	view, _ := svc.Load(context.Background(), nil)
	assert.Len(t, view.Items, 1)

	require.NoError(t, svc.Clear(context.Background(), true))
	view, err = svc.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.Total)
}

func TestServerHistory(t *testing.T) {
	catalog := &fakeCatalog{history: []entity.ServerPurchase{{ID: "1", Name: "Milk", Price: 45.5}}}
	svc := NewHistoryService(newReceipts(t), catalog, zap.NewNop())

	list, err := svc.ServerHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	catalog.err = repository.ErrCatalogUnavailable
	_, err = svc.ServerHistory(context.Background())
	assert.Equal(t, apperror.KindNetworkUnavailable, apperror.KindOf(err))
}

func TestExportCSV(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts,
		entity.Receipt{Name: "Milk", Price: "45.50", Quantity: 2, Date: "2024-05-01T10:30:00.000Z"},
	)
	svc := NewHistoryService(receipts, &fakeCatalog{}, zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))
	assert.Equal(t, "name,price,quantity,date\nMilk,45.50,2,2024-05-01T10:30:00.000Z\n", buf.String())
}
