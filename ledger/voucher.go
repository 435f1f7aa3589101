package ledger

// Voucher is a promotional discount rule gated by a minimum spend.
// The interface is closed: FlatVoucher and PercentVoucher are the only
// two variants.
type Voucher interface {
	// DiscountFor returns the discount granted against subtotal, zero
	// when the minimum spend is not met. The result never exceeds
	// subtotal.
	DiscountFor(subtotal float64) float64

	voucher()
}

// FlatVoucher takes a fixed amount off, capped at the subtotal.
type FlatVoucher struct {
	Amount   float64
	MinSpend float64
}

func (v FlatVoucher) voucher() {}

func (v FlatVoucher) DiscountFor(subtotal float64) float64 {
	if subtotal < v.MinSpend {
		return 0
	}
	discount := v.Amount
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return roundCents(discount)
}

// PercentVoucher takes a fraction of the subtotal off, capped at Cap and
// never more than the subtotal itself.
type PercentVoucher struct {
	Rate     float64 // fraction, 0.10 means 10%
	Cap      float64
	MinSpend float64
}

func (v PercentVoucher) voucher() {}

func (v PercentVoucher) DiscountFor(subtotal float64) float64 {
	if subtotal < v.MinSpend {
		return 0
	}
	discount := subtotal * v.Rate
	if discount > v.Cap {
		discount = v.Cap
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return roundCents(discount)
}
