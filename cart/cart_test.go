package cart

import (
	"testing"

	"kedai/models"
)

func line(menuID, name string, price float64, qty int, addOns []string) models.CartLine {
	return models.CartLine{
		LineID:    "line-" + menuID,
		MenuID:    menuID,
		FoodName:  name,
		BasePrice: price,
		Quantity:  qty,
		AddOns:    addOns,
	}
}

func TestFindMergeTarget(t *testing.T) {
	existing := []models.CartLine{
		line("m1", "Noodle", 15.90, 1, []string{"Egg", "Vegetable"}),
		line("m2", "Rice", 10.00, 2, nil),
	}

	tests := []struct {
		name     string
		incoming models.CartLine
		want     int
	}{
		{
			name:     "same customization merges even with reordered add-ons",
			incoming: line("m1", "Noodle", 15.90, 3, []string{"Vegetable", "Egg"}),
			want:     0,
		},
		{
			name:     "plain item merges with plain line",
			incoming: line("m2", "Rice", 10.00, 1, nil),
			want:     1,
		},
		{
			name:     "different add-ons keep a separate line",
			incoming: line("m1", "Noodle", 15.90, 1, []string{"Egg"}),
			want:     -1,
		},
		{
			name:     "different menu item never merges",
			incoming: line("m3", "Noodle", 15.90, 1, []string{"Egg", "Vegetable"}),
			want:     -1,
		},
		{
			name:     "price change keeps a separate line",
			incoming: line("m2", "Rice", 11.00, 1, nil),
			want:     -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findMergeTarget(existing, tt.incoming); got != tt.want {
				t.Errorf("findMergeTarget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToLineItemClampsQuantity(t *testing.T) {
	l := line("m1", "Rice", 10.00, 0, nil)
	item := ToLineItem(l)
	if item.Quantity != 1 {
		t.Errorf("ToLineItem quantity = %d, want 1", item.Quantity)
	}
}
