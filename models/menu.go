package models

import "time"

// AddOnOption is a purchasable extra on a menu item, with its price.
type AddOnOption struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

// MenuItem represents one dish offered by a stall.
type MenuItem struct {
	MenuID     string        `json:"menuid" bson:"menuid"`
	StallID    string        `json:"stallid" bson:"stallid"`
	Name       string        `json:"name" bson:"name"`
	Category   string        `json:"category" bson:"category"` // e.g. "noodles", "rice", "drinks"
	BasePrice  float64       `json:"basePrice" bson:"basePrice"`
	AddOns     []AddOnOption `json:"addOns,omitempty" bson:"addOns,omitempty"`
	Removables []string      `json:"removables,omitempty" bson:"removables,omitempty"` // ingredients a customer may leave out
	Photo      string        `json:"photo,omitempty" bson:"photo,omitempty"`
	Thumb      string        `json:"thumb,omitempty" bson:"thumb,omitempty"`
	Available  bool          `json:"available" bson:"available"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// AddOnPriceMap flattens the add-on options into a name → price map, the
// shape the pricing engine consumes.
func (m MenuItem) AddOnPriceMap() map[string]float64 {
	if len(m.AddOns) == 0 {
		return nil
	}
	prices := make(map[string]float64, len(m.AddOns))
	for _, a := range m.AddOns {
		prices[a.Name] = a.Price
	}
	return prices
}
