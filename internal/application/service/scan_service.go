package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/enum"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/apperror"
)

// ScanEvent drives the scan latch
type ScanEvent int

const (
	ScanEventStart ScanEvent = iota
	ScanEventResolved
	ScanEventFailed
	ScanEventReset
)

// NextScanState is the scan latch transition table. The second result is
// false when the event is not accepted in the current state.
func NextScanState(current enum.ScanState, event ScanEvent) (enum.ScanState, bool) {
	switch event {
	case ScanEventStart:
		if current.Latched() {
			return current, false
		}
		return enum.ScanStateResolving, true
	case ScanEventResolved:
		if current != enum.ScanStateResolving {
			return current, false
		}
		return enum.ScanStateResolved, true
	case ScanEventFailed:
		if current != enum.ScanStateResolving {
			return current, false
		}
		return enum.ScanStateAwaitingRetry, true
	case ScanEventReset:
		return enum.ScanStateIdle, true
	}
	return current, false
}

// ScanService turns a scanned QR payload into a product reference. Only one
// scan is accepted until the result is consumed with Reset.
type ScanService struct {
	catalog repository.CatalogRepository
	log     *zap.Logger

	mu    sync.Mutex
	state enum.ScanState
}

func NewScanService(catalog repository.CatalogRepository, log *zap.Logger) *ScanService {
	return &ScanService{
		catalog: catalog,
		log:     log.Named("scan"),
		state:   enum.ScanStateIdle,
	}
}

// Scan resolves raw QR data with one call to the catalog service
func (s *ScanService) Scan(ctx context.Context, raw string) (*entity.ProductRef, error) {
	if !s.transition(ScanEventStart) {
		return nil, apperror.ErrScanInProgress
	}

	payload, err := entity.DecodeQRPayload(raw)
	if err != nil {
		s.transition(ScanEventFailed)
		s.log.Info("rejected malformed qr payload", zap.Error(err))
		return nil, apperror.With(apperror.ErrMalformedPayload, "", err)
	}

	outcome, err := s.catalog.ResolveScan(ctx, payload.QRCodeID)
	if err != nil {
		s.transition(ScanEventFailed)
		s.log.Warn("scan resolution failed", zap.String("qr_code_id", payload.QRCodeID), zap.Error(err))
		return nil, catalogError(err)
	}

	if outcome.Kind != enum.OutcomeSuccess || outcome.Product == nil {
		s.transition(ScanEventFailed)
		return nil, apperror.With(apperror.ErrProductNotFound, outcome.Message, nil)
	}

	s.transition(ScanEventResolved)
	s.log.Debug("scan resolved",
		zap.String("qr_code_id", outcome.Product.QRCodeID),
		zap.String("name", outcome.Product.Name),
	)
	return outcome.Product, nil
}

// Reset releases the latch so the next scan is accepted
func (s *ScanService) Reset() {
	s.transition(ScanEventReset)
}

func (s *ScanService) State() enum.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ScanService) transition(event ScanEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := NextScanState(s.state, event)
	if ok {
		s.state = next
	}
	return ok
}

// catalogError maps a transport failure of the catalog service to its error kind
func catalogError(err error) error {
	if errors.Is(err, repository.ErrCatalogTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.With(apperror.ErrTimeout, "", err)
	}
	return apperror.With(apperror.ErrNetworkUnavailable, "", err)
}
