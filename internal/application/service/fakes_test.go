package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/enum"
	"github.com/sangkips/scanpay/internal/domain/repository"
)

type fakeCatalog struct {
	mu sync.Mutex

	products   []entity.Product
	popularity []entity.Popularity
	scan       *repository.ScanOutcome
	pay        *repository.PaymentOutcome
	history    []entity.ServerPurchase
	err        error

	// block, when set, holds ResolveScan until it is closed
	block chan struct{}

	scanCalls []string
	payCalls  int
	paidCodes []string
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) Popularity(ctx context.Context) ([]entity.Popularity, error) {
	return f.popularity, f.err
}

func (f *fakeCatalog) ResolveScan(ctx context.Context, qrCodeID string) (*repository.ScanOutcome, error) {
	f.mu.Lock()
	f.scanCalls = append(f.scanCalls, qrCodeID)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.scan, nil
}

func (f *fakeCatalog) Pay(ctx context.Context, qrCodeID string, quantity int) (*repository.PaymentOutcome, error) {
	f.mu.Lock()
	f.payCalls++
	f.paidCodes = append(f.paidCodes, qrCodeID)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.pay, nil
}

func (f *fakeCatalog) PurchaseHistory(ctx context.Context) ([]entity.ServerPurchase, error) {
	return f.history, f.err
}

func (f *fakeCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scanCalls)
}

func acceptedPayment(item string, total float64, qty int) *repository.PaymentOutcome {
	return &repository.PaymentOutcome{
		Kind: enum.OutcomeSuccess,
		Bill: &entity.Bill{Item: item, Total: total, Quantity: qty, PaymentMode: "UPI", Status: "PAID"},
	}
}

// brokenReceipts fails every operation
type brokenReceipts struct{}

var errDiskFull = errors.New("disk full")

func (brokenReceipts) List(context.Context) ([]entity.Receipt, error) { return nil, errDiskFull }
func (brokenReceipts) Prepend(context.Context, entity.Receipt) error { return errDiskFull }
func (brokenReceipts) Clear(context.Context) error { return errDiskFull }
func (brokenReceipts) Close() error { return nil }

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)
