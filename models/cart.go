package models

import "time"

// CartLine is a customized menu item sitting in a user's cart.
type CartLine struct {
	LineID      string             `json:"lineId" bson:"lineId"`
	UserID      string             `json:"userId" bson:"userId"`
	MenuID      string             `json:"menuId" bson:"menuId"`
	StallID     string             `json:"stallId" bson:"stallId"`
	FoodName    string             `json:"foodName" bson:"foodName"`
	BasePrice   float64            `json:"basePrice" bson:"basePrice"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	AddOns      []string           `json:"addOns,omitempty" bson:"addOns,omitempty"`
	Removals    []string           `json:"removals,omitempty" bson:"removals,omitempty"`
	AddOnPrices map[string]float64 `json:"addOnPrices,omitempty" bson:"addOnPrices,omitempty"`
	AddedAt     time.Time          `json:"addedAt" bson:"addedAt"`
}
