package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/pkg/apperror"
	"github.com/sangkips/scanpay/pkg/printer"
)

type bufferPrinter struct {
	buf bytes.Buffer
}

func (p *bufferPrinter) Print(ctx context.Context, data []byte) error {
	_, err := p.buf.Write(data)
	return err
}
func (p *bufferPrinter) IsConnected(context.Context) bool { return true }
func (p *bufferPrinter) Close() error { return nil }

func TestFormatReceipt(t *testing.T) {
	data := FormatReceipt(entity.Receipt{Name: "Milk", Price: "91.00", Quantity: 2, Date: "2024-05-01T10:30:00.000Z"}, "Smart Store", 32)

	assert.Contains(t, string(data), "Smart Store")
	assert.Contains(t, string(data), "2x Milk")
	assert.Contains(t, string(data), "@ 45.50 each")
	assert.Contains(t, string(data), "TOTAL:")
	assert.True(t, bytes.HasSuffix(data, []byte{printer.GS, 'V', 0x01}))
}

func TestPrintReceiptByIndex(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts,
		entity.Receipt{Name: "Milk", Price: "45.50", Quantity: 1},
		entity.Receipt{Name: "Tea", Price: "12.00", Quantity: 1},
	)
	p := &bufferPrinter{}
	svc := NewPrinterService(p, receipts, PrinterOptions{Type: "network", Width: 32, StoreName: "Smart Store"}, zap.NewNop())

	r, err := svc.PrintReceipt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Tea", r.Name)
	assert.Contains(t, p.buf.String(), "1x Tea")

	_, err = svc.PrintReceipt(context.Background(), 5)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPrintReceiptWithoutPrinter(t *testing.T) {
	receipts := newReceipts(t)
	seed(t, receipts, entity.Receipt{Name: "Milk", Price: "45.50", Quantity: 1})
	svc := NewPrinterService(printer.NewNullPrinter(), receipts, PrinterOptions{Type: "none"}, zap.NewNop())

	r, err := svc.PrintReceipt(context.Background(), 0)
	assert.ErrorIs(t, err, printer.ErrNoPrinter)
	require.NotNil(t, r)

	status := svc.Status(context.Background())
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
}
