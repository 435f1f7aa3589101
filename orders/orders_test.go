package orders

import (
	"strings"
	"testing"

	"kedai/models"
)

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderPending, models.OrderPreparing, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderReady, false},
		{models.OrderPreparing, models.OrderReady, true},
		{models.OrderPreparing, models.OrderCollected, false},
		{models.OrderReady, models.OrderCollected, true},
		{models.OrderReady, models.OrderCancelled, false},
		{models.OrderCollected, models.OrderPending, false},
		{models.OrderCancelled, models.OrderPreparing, false},
	}
	for _, tt := range tests {
		if got := transitionAllowed(tt.from, tt.to); got != tt.want {
			t.Errorf("transitionAllowed(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPickupSignatureRoundTrip(t *testing.T) {
	order := models.Order{OrderID: "ORD12345678", PickupCode: "482913"}
	payload := pickupPayload(order)

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		t.Fatalf("payload %q: expected 3 parts, got %d", payload, len(parts))
	}
	orderID, code, sig := parts[0], parts[1], parts[2]

	if !VerifyPickupSignature(orderID, code, sig) {
		t.Error("valid signature rejected")
	}
	if VerifyPickupSignature(orderID, "000000", sig) {
		t.Error("tampered pickup code accepted")
	}
	if VerifyPickupSignature("ORD00000000", code, sig) {
		t.Error("tampered order id accepted")
	}
	if VerifyPickupSignature(orderID, code, "zz") {
		t.Error("malformed signature accepted")
	}
}
