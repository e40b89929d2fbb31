package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/sangkips/scanpay/pkg/money"
	"github.com/sangkips/scanpay/pkg/utils"
)

// ISOLayout matches the millisecond UTC timestamps receipts have always used
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Receipt is a locally persisted record of a completed purchase. Price is kept
// as text with two decimals; Date is the instant the receipt was written on
// this device, not the server's transaction time.
type Receipt struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
}

// NewReceipt builds the receipt for an accepted bill
func NewReceipt(bill *Bill, quantity int, at time.Time) Receipt {
	return Receipt{
		Name:     bill.Item,
		Price:    money.FormatPrice(bill.Total),
		Quantity: quantity,
		Date:     at.UTC().Format(ISOLayout),
	}
}

// UnmarshalJSON accepts receipts written by older clients, where price may be
// a number and quantity a numeric string.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     interface{} `json:"name"`
		Price    interface{} `json:"price"`
		Quantity interface{} `json:"quantity"`
		Date     interface{} `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Name = cast.ToString(raw.Name)
	r.Date = cast.ToString(raw.Date)
	switch p := raw.Price.(type) {
	case string:
		r.Price = p
	case float64:
		r.Price = strconv.FormatFloat(p, 'f', -1, 64)
	default:
		r.Price = ""
	}
	r.Quantity, _ = utils.ParseCount(cast.ToString(raw.Quantity))
	return nil
}

// Amount is the best-effort numeric value of the stored price
func (r Receipt) Amount() float64 {
	return money.NormalizePrice(r.Price)
}

// DecodeReceipts parses a stored receipt list; empty input is an empty list
func DecodeReceipts(data []byte) ([]Receipt, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Receipt{}, nil
	}
	var receipts []Receipt
	if err := json.Unmarshal(data, &receipts); err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	return receipts, nil
}

// EncodeReceipts serialises a receipt list for storage
func EncodeReceipts(receipts []Receipt) ([]byte, error) {
	if receipts == nil {
		receipts = []Receipt{}
	}
	return json.Marshal(receipts)
}
