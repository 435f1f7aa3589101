package models

import "time"

// Order statuses, in the order the kitchen moves through them.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCollected = "collected"
	OrderCancelled = "cancelled"
)

// OrderItem is the priced snapshot of one cart line at checkout time.
type OrderItem struct {
	FoodName    string             `json:"foodName" bson:"foodName"`
	BasePrice   float64            `json:"basePrice" bson:"basePrice"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	AddOns      []string           `json:"addOns,omitempty" bson:"addOns,omitempty"`
	Removals    []string           `json:"removals,omitempty" bson:"removals,omitempty"`
	AddOnPrices map[string]float64 `json:"addOnPrices,omitempty" bson:"addOnPrices,omitempty"`
	LineTotal   float64            `json:"lineTotal" bson:"lineTotal"`
}

// Order is a finalized, paid (or counter-payable) order with the totals
// breakdown exactly as charged.
type Order struct {
	OrderID         string      `json:"orderId" bson:"orderId"`
	UserID          string      `json:"userId" bson:"userId"`
	StallID         string      `json:"stallId,omitempty" bson:"stallId,omitempty"`
	Items           []OrderItem `json:"items" bson:"items"`
	Subtotal        float64     `json:"subtotal" bson:"subtotal"`
	VoucherCode     string      `json:"voucherCode,omitempty" bson:"voucherCode,omitempty"`
	VoucherDiscount float64     `json:"voucherDiscount" bson:"voucherDiscount"`
	CoinsUsed       int         `json:"coinsUsed" bson:"coinsUsed"`
	CoinDiscount    float64     `json:"coinDiscount" bson:"coinDiscount"`
	FinalTotal      float64     `json:"finalTotal" bson:"finalTotal"`
	CoinsEarned     int         `json:"coinsEarned" bson:"coinsEarned"`
	PaymentMethod   string      `json:"paymentMethod" bson:"paymentMethod"`
	TransactionID   string      `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Status          string      `json:"status" bson:"status"`
	PickupCode      string      `json:"pickupCode" bson:"pickupCode"`
	IdempotencyKey  string      `json:"-" bson:"idempotencyKey,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
}
