package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/apperror"
	"github.com/sangkips/scanpay/pkg/money"
	"github.com/sangkips/scanpay/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	receipts    repository.ReceiptRepository
	printerType string
	width       int
	storeName   string
	log         *zap.Logger
}

// PrinterOptions describes the attached printer and the receipt header
type PrinterOptions struct {
	Type      string
	Width     int
	StoreName string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	receipts repository.ReceiptRepository,
	opts PrinterOptions,
	log *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		receipts:    receipts,
		printerType: opts.Type,
		width:       opts.Width,
		storeName:   opts.StoreName,
		log:         log.Named("printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

func (s *PrinterService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.KindNone && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// PrintReceipt prints the receipt at position index of the local history
// (0 is the most recent). The receipt is returned even when printing fails.
func (s *PrinterService) PrintReceipt(ctx context.Context, index int) (*entity.Receipt, error) {
	receipts, err := s.receipts.List(ctx)
	if err != nil {
		return nil, apperror.With(apperror.ErrStoreWriteFailed, "Could not read the local receipt history.", err)
	}
	if index < 0 || index >= len(receipts) {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	receipt := receipts[index]
	if err := s.Print(ctx, receipt); err != nil {
		return &receipt, err
	}
	return &receipt, nil
}

// Print sends one receipt to the printer
func (s *PrinterService) Print(ctx context.Context, r entity.Receipt) error {
	data := FormatReceipt(r, s.storeName, s.width)
	if err := s.printer.Print(ctx, data); err != nil {
		s.log.Warn("printer error", zap.String("item", r.Name), zap.Error(err))
		return err
	}
	return nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r entity.Receipt, storeName string, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(storeName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	date := r.Date
	if date == "" {
		date = UnknownDate
	}
	doc.KeyValue("Date:", date)
	doc.Separator('-')

	name := r.Name
	if name == "" {
		name = entity.UnnamedItem
	}
	qty := r.Quantity
	if qty <= 0 {
		qty = 1
	}
	total := r.Amount()
	doc.ItemLine(qty, name, money.FormatPrice(total))
	if qty > 1 {
		doc.TextF("  @ %.2f each", total/float64(qty))
	}

	doc.Separator('-')
	doc.SetBold(true).
		KeyValue("TOTAL:", money.FormatPrice(total)).
		SetBold(false)
	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for shopping!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
