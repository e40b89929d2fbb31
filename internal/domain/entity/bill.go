package entity

// Bill is the remote service's confirmation of an accepted payment
type Bill struct {
	Item        string  `json:"item"`
	Total       float64 `json:"total"`
	Quantity    int     `json:"quantity"`
	PaymentMode string  `json:"paymentMode"`
	Status      string  `json:"status"`
}
