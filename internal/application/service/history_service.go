package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/apperror"
	"github.com/sangkips/scanpay/pkg/money"
	"github.com/sangkips/scanpay/pkg/pagination"
)

// UnknownDate is shown for receipts whose date cannot be read
const UnknownDate = "Unknown Date"

const displayDateLayout = "02 Jan 2006, 15:04"

// HistoryItem is one receipt prepared for display
type HistoryItem struct {
	Name      string  `json:"name" csv:"name"`
	Price     string  `json:"price" csv:"price"`
	Amount    float64 `json:"amount" csv:"-"`
	Quantity  int     `json:"quantity" csv:"quantity"`
	Date      string  `json:"date" csv:"date"`
	DateLabel string  `json:"dateLabel" csv:"-"`
}

// HistoryView is the payment history screen. Total covers every stored
// receipt, whatever page Items holds.
type HistoryView struct {
	Items      []HistoryItem          `json:"items"`
	Total      float64                `json:"total"`
	TotalText  string                 `json:"totalText"`
	Pagination *pagination.Pagination `json:"-"`
}

type HistoryService struct {
	receipts repository.ReceiptRepository
	catalog  repository.CatalogRepository
	log      *zap.Logger
	loc      *time.Location
}

func NewHistoryService(
	receipts repository.ReceiptRepository,
	catalog repository.CatalogRepository,
	log *zap.Logger,
) *HistoryService {
	return &HistoryService{
		receipts: receipts,
		catalog:  catalog,
		log:      log.Named("history"),
		loc:      time.Local,
	}
}

// WithLocation sets the zone receipt dates are displayed in
func (s *HistoryService) WithLocation(loc *time.Location) *HistoryService {
	s.loc = loc
	return s
}

// Load reads the receipt list fresh from the store on every call
func (s *HistoryService) Load(ctx context.Context, params *pagination.PaginationParams) (*HistoryView, error) {
	if params == nil {
		params = pagination.All()
	}

	receipts, err := s.receipts.List(ctx)
	if err != nil {
		s.log.Error("failed to read receipt history", zap.Error(err))
		return nil, apperror.With(apperror.ErrStoreWriteFailed, "Could not read the local receipt history.", err)
	}

	items := make([]HistoryItem, 0, len(receipts))
	var total float64
	for _, r := range receipts {
		item := s.toItem(r)
		total += item.Amount
		items = append(items, item)
	}

	page, p := pagination.Slice(items, params)
	return &HistoryView{
		Items:      page,
		Total:      total,
		TotalText:  money.FormatPrice(total),
		Pagination: p,
	}, nil
}

func (s *HistoryService) toItem(r entity.Receipt) HistoryItem {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = entity.UnnamedItem
	}
	amount := r.Amount()
	return HistoryItem{
		Name:      name,
		Price:     fmt.Sprintf("%.2f", amount),
		Amount:    amount,
		Quantity:  r.Quantity,
		Date:      r.Date,
		DateLabel: s.dateLabel(r.Date),
	}
}

func (s *HistoryService) dateLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownDate
	}
	t, err := dateparse.ParseIn(raw, s.loc)
	if err != nil {
		return UnknownDate
	}
	return t.In(s.loc).Format(displayDateLayout)
}

// Clear removes every stored receipt once the user has confirmed
func (s *HistoryService) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return apperror.ErrConfirmationRequired
	}
	if err := s.receipts.Clear(ctx); err != nil {
		return apperror.With(apperror.ErrStoreWriteFailed, "", err)
	}
	return nil
}

// ServerHistory lists the purchases recorded by the remote service. It is
// not reconciled with the local receipts.
func (s *HistoryService) ServerHistory(ctx context.Context) ([]entity.ServerPurchase, error) {
	purchases, err := s.catalog.PurchaseHistory(ctx)
	if err != nil {
		s.log.Warn("failed to fetch server purchase history", zap.Error(err))
		return nil, catalogError(err)
	}
	return purchases, nil
}

// ExportCSV writes every local receipt as CSV, most recent first
func (s *HistoryService) ExportCSV(ctx context.Context, w io.Writer) error {
	view, err := s.Load(ctx, pagination.All())
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(view.Items, w); err != nil {
		return apperror.With(apperror.ErrInternalServer, "Could not export receipt history", err)
	}
	return nil
}
