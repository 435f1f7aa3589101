package models

import "time"

// User is the slice of the account document this service cares about:
// identity plus the loyalty coin balance. Account management itself lives
// in a separate service.
type User struct {
	UserID      string    `json:"userId" bson:"userId"`
	Username    string    `json:"username" bson:"username"`
	CoinBalance int       `json:"coinBalance" bson:"coinBalance"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CoinEntry is one append-only loyalty ledger record.
type CoinEntry struct {
	EntryID   string    `json:"entryId" bson:"entryId"`
	UserID    string    `json:"userId" bson:"userId"`
	OrderID   string    `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Type      string    `json:"type" bson:"type"` // earn, redeem
	Coins     int       `json:"coins" bson:"coins"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
