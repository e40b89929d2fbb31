package entity

import (
	"strings"

	"github.com/sangkips/scanpay/pkg/money"
)

// UnnamedItem is shown wherever the service left a product name blank
const UnnamedItem = "Unnamed Item"

// Location is the shelf slot of a product inside the store
type Location struct {
	Floor  *int `json:"floor,omitempty"`
	Row    *int `json:"row,omitempty"`
	Column *int `json:"column,omitempty"`
	Drawer *int `json:"drawer,omitempty"`
}

// Product is a catalog entry as listed by the remote service
type Product struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand,omitempty"`
	Price    float64   `json:"price"`
	Stock    int       `json:"stock"`
	Location *Location `json:"location,omitempty"`
}

// Popularity counts recent purchases of one product. The service keys it by
// product name, not by product id.
type Popularity struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// ProductRef is the resolved identity and price that drives a payment request
type ProductRef struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	QRCodeID string  `json:"qrCodeId"`
}

// NewProductRef normalises a scanned product: a blank name becomes
// UnnamedItem and a missing or unparsable price becomes 0.
func NewProductRef(name string, price interface{}, qrCodeID string) *ProductRef {
	name = strings.TrimSpace(name)
	if name == "" {
		name = UnnamedItem
	}
	return &ProductRef{
		Name:     name,
		Price:    money.UnitPrice(price),
		QRCodeID: qrCodeID,
	}
}
