package models

import "time"

// Voucher kinds stored in Mongo.
const (
	VoucherFlat    = "flat"
	VoucherPercent = "percent"
)

// VoucherDoc is a stored promotional voucher. Kind selects which fields
// apply: Amount for flat vouchers, Rate and Cap for percent vouchers.
// MinSpend gates both.
type VoucherDoc struct {
	Code      string    `json:"code" bson:"code"`
	Kind      string    `json:"kind" bson:"kind"`
	Amount    float64   `json:"amount,omitempty" bson:"amount,omitempty"`
	Rate      float64   `json:"rate,omitempty" bson:"rate,omitempty"` // fraction, 0.10 means 10%
	Cap       float64   `json:"cap,omitempty" bson:"cap,omitempty"`
	MinSpend  float64   `json:"minSpend" bson:"minSpend"`
	Active    bool      `json:"active" bson:"active"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}
