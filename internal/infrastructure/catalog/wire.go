package catalog

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/pkg/money"
)

// Response bodies as the service sends them. Numbers are decoded loosely
// because older service builds send prices as strings.

type productBody struct {
	ID       string           `json:"_id"`
	Name     string           `json:"name"`
	Brand    string           `json:"brand"`
	Price    interface{}      `json:"price"`
	Stock    interface{}      `json:"stock"`
	Location *entity.Location `json:"location"`
}

func (p productBody) toEntity() entity.Product {
	return entity.Product{
		ID:       p.ID,
		Name:     strings.TrimSpace(p.Name),
		Brand:    p.Brand,
		Price:    money.UnitPrice(p.Price),
		Stock:    cast.ToInt(p.Stock),
		Location: p.Location,
	}
}

type popularityBody struct {
	Data []entity.Popularity `json:"data"`
}

type scanRequest struct {
	QRCodeID string `json:"qrCodeId"`
}

type scanBody struct {
	Product *struct {
		Name  string      `json:"name"`
		Price interface{} `json:"price"`
	} `json:"product"`
	Message string `json:"message"`
}

type payRequest struct {
	QRCodeID string `json:"qrCodeId"`
	Quantity int    `json:"quantity"`
}

type payBody struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Bill    *billBody `json:"bill"`
}

type billBody struct {
	Item        string      `json:"item"`
	Total       interface{} `json:"total"`
	Quantity    interface{} `json:"quantity"`
	PaymentMode string      `json:"paymentMode"`
	Status      string      `json:"status"`
}

func (b billBody) toEntity() *entity.Bill {
	qty := cast.ToInt(b.Quantity)
	if qty <= 0 {
		qty = 1
	}
	return &entity.Bill{
		Item:        b.Item,
		Total:       money.UnitPrice(b.Total),
		Quantity:    qty,
		PaymentMode: b.PaymentMode,
		Status:      b.Status,
	}
}

type historyBody struct {
	Success   bool `json:"success"`
	Purchases []struct {
		ID        string      `json:"_id"`
		Name      string      `json:"name"`
		Price     interface{} `json:"price"`
		Timestamp string      `json:"timestamp"`
	} `json:"purchases"`
}
