package ledger

import (
	"math"
	"testing"
)

func TestFlatVoucherDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		voucher  FlatVoucher
		subtotal float64
		want     float64
	}{
		{
			name:     "below minimum spend yields zero",
			voucher:  FlatVoucher{Amount: 5.00, MinSpend: 50.00},
			subtotal: 36.90,
			want:     0,
		},
		{
			name:     "at minimum spend applies fully",
			voucher:  FlatVoucher{Amount: 5.00, MinSpend: 36.90},
			subtotal: 36.90,
			want:     5.00,
		},
		{
			name:     "never exceeds subtotal",
			voucher:  FlatVoucher{Amount: 50.00, MinSpend: 0},
			subtotal: 12.00,
			want:     12.00,
		},
		{
			name:     "zero subtotal",
			voucher:  FlatVoucher{Amount: 5.00, MinSpend: 0},
			subtotal: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.voucher.DiscountFor(tt.subtotal)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("DiscountFor(%v) = %v, want %v", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestPercentVoucherDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		voucher  PercentVoucher
		subtotal float64
		want     float64
	}{
		{
			name:     "below minimum spend yields zero",
			voucher:  PercentVoucher{Rate: 0.10, Cap: 3.00, MinSpend: 50.00},
			subtotal: 36.90,
			want:     0,
		},
		{
			name:     "raw percentage capped at cap",
			voucher:  PercentVoucher{Rate: 0.10, Cap: 3.00, MinSpend: 20.00},
			subtotal: 36.90,
			want:     3.00, // 10% would be 3.69
		},
		{
			name:     "under the cap the raw percentage applies",
			voucher:  PercentVoucher{Rate: 0.10, Cap: 5.00, MinSpend: 20.00},
			subtotal: 36.90,
			want:     3.69,
		},
		{
			name:     "never exceeds subtotal even with a huge rate",
			voucher:  PercentVoucher{Rate: 2.00, Cap: 100.00, MinSpend: 0},
			subtotal: 10.00,
			want:     10.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.voucher.DiscountFor(tt.subtotal)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("DiscountFor(%v) = %v, want %v", tt.subtotal, got, tt.want)
			}
		})
	}
}

// A percent discount must stay within min(cap, subtotal) across a sweep of
// subtotals and rates.
func TestPercentVoucherNeverExceedsBounds(t *testing.T) {
	voucher := PercentVoucher{Rate: 0.25, Cap: 7.50, MinSpend: 0}
	for subtotal := 0.0; subtotal <= 100.0; subtotal += 0.7 {
		got := voucher.DiscountFor(subtotal)
		limit := math.Min(voucher.Cap, subtotal)
		if got > limit+0.001 {
			t.Fatalf("DiscountFor(%v) = %v exceeds min(cap, subtotal) = %v", subtotal, got, limit)
		}
	}
}
