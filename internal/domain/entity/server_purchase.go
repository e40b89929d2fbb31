package entity

// ServerPurchase is one row of the purchase history kept by the remote service
type ServerPurchase struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}
