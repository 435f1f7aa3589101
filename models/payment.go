package models

import "time"

// Meta is a generic key-value map for transaction metadata
type Meta map[string]interface{}

// Transaction records one simulated payment attempt against an order.
type Transaction struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"userid" json:"userid"`
	OrderID        string    `bson:"order_id,omitempty" json:"orderId,omitempty"`
	Method         string    `bson:"method" json:"method"` // card, ewallet, counter
	Amount         float64   `bson:"amount" json:"amount"`
	Currency       string    `bson:"currency" json:"currency"`
	Status         string    `bson:"state" json:"state"` // initiated, success, failed
	Reference      string    `bson:"reference,omitempty" json:"reference,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
	IdempotencyKey string    `bson:"external_ref,omitempty" json:"external_ref,omitempty"`
	Meta           Meta      `bson:"meta,omitempty" json:"meta,omitempty"`
}

// PaymentRequest is what the checkout layer hands to the gateway
// simulator.
type PaymentRequest struct {
	UserID  string  `json:"userId"`
	OrderID string  `json:"orderId"`
	Method  string  `json:"method"`
	Amount  float64 `json:"amount"`
	// CardNumber is only set for the card method; the simulator declines
	// the designated test number.
	CardNumber string `json:"cardNumber,omitempty"`
}
