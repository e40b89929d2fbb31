package repository

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	domainRepo "github.com/sangkips/scanpay/internal/domain/repository"
)

// ErrReceiptStoreClosed is returned for writes submitted after Close
var ErrReceiptStoreClosed = stderrors.New("receipt store is closed")

type writeOp struct {
	ctx   context.Context
	apply func(ctx context.Context) error
	done  chan error
}

type receiptRepository struct {
	store domainRepo.KeyValueStore
	key   string
	log   *zap.Logger

	ops       chan writeOp
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewReceiptRepository keeps the receipt list as one JSON array under key.
// All writes are funnelled through a single goroutine.
func NewReceiptRepository(store domainRepo.KeyValueStore, key string, log *zap.Logger) domainRepo.ReceiptRepository {
	r := &receiptRepository{
		store: store,
		key:   key,
		log:   log.Named("receipts"),
		ops:   make(chan writeOp),
		quit:  make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *receiptRepository) run() {
	defer r.wg.Done()
	for {
		select {
		case op := <-r.ops:
			if err := op.ctx.Err(); err != nil {
				op.done <- err
				continue
			}
			op.done <- op.apply(op.ctx)
		case <-r.quit:
			return
		}
	}
}

func (r *receiptRepository) submit(ctx context.Context, apply func(ctx context.Context) error) error {
	op := writeOp{ctx: ctx, apply: apply, done: make(chan error, 1)}
	select {
	case r.ops <- op:
	case <-r.quit:
		return ErrReceiptStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// the writer always answers once it has taken the op
	return <-op.done
}

func (r *receiptRepository) List(ctx context.Context) ([]entity.Receipt, error) {
	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, errors.Wrap(err, "read receipt list")
	}
	if !ok {
		return []entity.Receipt{}, nil
	}
	receipts, err := entity.DecodeReceipts(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode receipt list")
	}
	return receipts, nil
}

func (r *receiptRepository) Prepend(ctx context.Context, receipt entity.Receipt) error {
	return r.submit(ctx, func(ctx context.Context) error {
		err := r.store.Update(ctx, r.key, func(current []byte, exists bool) ([]byte, error) {
			existing := []entity.Receipt{}
			if exists {
				decoded, err := entity.DecodeReceipts(current)
				if err != nil {
					// an unreadable list would be wiped by the write, refuse instead
					return nil, errors.Wrap(err, "decode receipt list")
				}
				existing = decoded
			}
			next := make([]entity.Receipt, 0, len(existing)+1)
			next = append(next, receipt)
			next = append(next, existing...)
			return entity.EncodeReceipts(next)
		})
		if err != nil {
			r.log.Error("failed to prepend receipt", zap.String("item", receipt.Name), zap.Error(err))
			return errors.Wrap(err, "prepend receipt")
		}
		r.log.Debug("receipt stored", zap.String("item", receipt.Name), zap.String("price", receipt.Price))
		return nil
	})
}

func (r *receiptRepository) Clear(ctx context.Context) error {
	return r.submit(ctx, func(ctx context.Context) error {
		if err := r.store.Delete(ctx, r.key); err != nil {
			r.log.Error("failed to clear receipts", zap.Error(err))
			return errors.Wrap(err, "clear receipts")
		}
		r.log.Info("receipt history cleared")
		return nil
	})
}

// Close stops the writer and closes the underlying store
func (r *receiptRepository) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.quit)
		r.wg.Wait()
		err = r.store.Close()
	})
	return err
}
