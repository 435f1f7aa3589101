package ledger

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

// The worked example from the checkout flow: Noodle 15.90 with an egg,
// plus two Rice at 10.00.
func exampleItems() []LineItem {
	return []LineItem{
		NewLineItem("Noodle", 15.90, 1, []string{"Egg"}, nil, map[string]float64{"Egg": 1.00}),
		NewLineItem("Rice", 10.00, 2, nil, nil, nil),
	}
}

func TestSubtotal(t *testing.T) {
	l := New()
	l.AppendItems(exampleItems(), 0)

	if !almostEqual(l.Subtotal(), 36.90) {
		t.Errorf("Subtotal() = %v, want 36.90", l.Subtotal())
	}
	if !almostEqual(l.FinalTotal(), 36.90) {
		t.Errorf("FinalTotal() = %v, want 36.90 with no discounts", l.FinalTotal())
	}
}

func TestPercentVoucherAndCoinCap(t *testing.T) {
	l := New()
	l.AppendItems(exampleItems(), 0)
	l.SetVoucher(PercentVoucher{Rate: 0.10, Cap: 3.00, MinSpend: 20.00})

	// Raw 3.69 capped at 3.00; remaining 33.90 allows exactly 339 coins.
	if !almostEqual(l.VoucherDiscount(), 3.00) {
		t.Errorf("VoucherDiscount() = %v, want 3.00", l.VoucherDiscount())
	}
	if got := l.MaxRedeemableCoins(); got != 339 {
		t.Errorf("MaxRedeemableCoins() = %d, want 339", got)
	}

	// 500 coins exceed the cap even with a large balance: rejected, state
	// unchanged.
	if l.SetCoinsUsedValidated(500, 1000) {
		t.Error("SetCoinsUsedValidated(500, 1000) = true, want false")
	}
	if l.CoinsUsed() != 0 {
		t.Errorf("CoinsUsed() = %d after rejected validation, want 0", l.CoinsUsed())
	}
	if !almostEqual(l.FinalTotal(), 33.90) {
		t.Errorf("FinalTotal() = %v after rejected validation, want 33.90", l.FinalTotal())
	}

	// 300 coins are fine: RM 30.00 off.
	if !l.SetCoinsUsedValidated(300, 1000) {
		t.Fatal("SetCoinsUsedValidated(300, 1000) = false, want true")
	}
	if !almostEqual(l.CoinDiscount(), 30.00) {
		t.Errorf("CoinDiscount() = %v, want 30.00", l.CoinDiscount())
	}
	if !almostEqual(l.FinalTotal(), 3.90) {
		t.Errorf("FinalTotal() = %v, want 3.90", l.FinalTotal())
	}
}

func TestCoinsToEarnIgnoresDiscounts(t *testing.T) {
	l := New()
	l.AppendItems(exampleItems(), 0)

	if got := l.CoinsToEarn(); got != 36 {
		t.Errorf("CoinsToEarn() = %d, want 36", got)
	}

	// Earned coins come from gross spend; discounts must not change them.
	l.SetVoucher(PercentVoucher{Rate: 0.10, Cap: 3.00, MinSpend: 20.00})
	l.SetCoinsUsed(300)
	if got := l.CoinsToEarn(); got != 36 {
		t.Errorf("CoinsToEarn() = %d after discounts, want 36", got)
	}
}

func TestFlatVoucherGating(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 0)

	l.SetVoucher(FlatVoucher{Amount: 5.00, MinSpend: 20.00})
	if !almostEqual(l.VoucherDiscount(), 0) {
		t.Errorf("VoucherDiscount() = %v below min spend, want 0", l.VoucherDiscount())
	}

	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 0)
	if !almostEqual(l.VoucherDiscount(), 5.00) {
		t.Errorf("VoucherDiscount() = %v once min spend is met, want 5.00", l.VoucherDiscount())
	}
}

func TestSetCoinsUsedClamping(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 0)

	// Negative requests clamp to zero.
	l.SetCoinsUsed(-5)
	if l.CoinsUsed() != 0 {
		t.Errorf("CoinsUsed() = %d after SetCoinsUsed(-5), want 0", l.CoinsUsed())
	}

	// Requests beyond the subtotal cap clamp down silently.
	l.SetCoinsUsed(1000)
	if l.CoinsUsed() != 100 {
		t.Errorf("CoinsUsed() = %d after SetCoinsUsed(1000), want 100", l.CoinsUsed())
	}
	if !almostEqual(l.FinalTotal(), 0) {
		t.Errorf("FinalTotal() = %v fully coin-paid, want 0", l.FinalTotal())
	}
}

func TestCoinsReclampWhenVoucherShrinksRemaining(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 0)
	l.SetCoinsUsed(100) // full subtotal in coins

	// A flat voucher shrinks the post-voucher amount; coins must follow
	// down, never negative.
	l.SetVoucher(FlatVoucher{Amount: 4.00, MinSpend: 0})
	if l.CoinsUsed() != 60 {
		t.Errorf("CoinsUsed() = %d after voucher applied, want 60", l.CoinsUsed())
	}
	if !almostEqual(l.FinalTotal(), 0) {
		t.Errorf("FinalTotal() = %v, want 0", l.FinalTotal())
	}
}

func TestFinalTotalNeverNegative(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 0)
	l.SetVoucher(FlatVoucher{Amount: 50.00, MinSpend: 0})
	l.SetCoinsUsed(500)

	if l.FinalTotal() < 0 {
		t.Errorf("FinalTotal() = %v, want >= 0", l.FinalTotal())
	}
	if got := l.MaxRedeemableCoins(); got != 0 {
		t.Errorf("MaxRedeemableCoins() = %d with voucher covering subtotal, want 0", got)
	}
}

func TestRecalcIdempotence(t *testing.T) {
	build := func(applyTwice bool) *Ledger {
		l := New()
		l.AppendItems(exampleItems(), 0)
		l.SetVoucher(PercentVoucher{Rate: 0.10, Cap: 3.00, MinSpend: 20.00})
		l.SetCoinsUsed(5)
		if applyTwice {
			l.SetCoinsUsed(5)
			l.SetVoucher(PercentVoucher{Rate: 0.10, Cap: 3.00, MinSpend: 20.00})
		}
		return l
	}

	once, twice := build(false), build(true)
	if once.CoinsUsed() != twice.CoinsUsed() ||
		!almostEqual(once.Subtotal(), twice.Subtotal()) ||
		!almostEqual(once.VoucherDiscount(), twice.VoucherDiscount()) ||
		!almostEqual(once.CoinDiscount(), twice.CoinDiscount()) ||
		!almostEqual(once.FinalTotal(), twice.FinalTotal()) {
		t.Errorf("repeating the same mutations changed state: once=%+v twice=%+v", once, twice)
	}
}

func TestAppendItemsAccumulatesCoins(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 20)
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 30)

	if l.CoinsUsed() != 50 {
		t.Errorf("CoinsUsed() = %d after two appends, want 50", l.CoinsUsed())
	}
	if !almostEqual(l.CoinDiscount(), 5.00) {
		t.Errorf("CoinDiscount() = %v, want 5.00", l.CoinDiscount())
	}
	if !almostEqual(l.FinalTotal(), 15.00) {
		t.Errorf("FinalTotal() = %v, want 15.00", l.FinalTotal())
	}
}

func TestClear(t *testing.T) {
	l := New()
	l.AppendItems(exampleItems(), 10)
	l.SetVoucher(FlatVoucher{Amount: 5.00, MinSpend: 0})

	l.Clear()

	if len(l.Items()) != 0 {
		t.Errorf("Items() has %d entries after Clear, want 0", len(l.Items()))
	}
	if l.ActiveVoucher() != nil {
		t.Error("ActiveVoucher() != nil after Clear")
	}
	if l.CoinsUsed() != 0 || l.Subtotal() != 0 || l.VoucherDiscount() != 0 ||
		l.CoinDiscount() != 0 || l.FinalTotal() != 0 {
		t.Errorf("non-zero state after Clear: %+v", l)
	}
}

func TestRestoreWithSnapshot(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Rice", 10.00, 1, nil, nil, nil)}, 0)

	// The persisted numbers deliberately disagree with what a recompute
	// would produce; a snapshot restore must trust them verbatim.
	items := exampleItems()
	l.Restore(items, 300, &Snapshot{Subtotal: 36.90, CoinDiscount: 30.00, FinalTotal: 3.90})

	if !almostEqual(l.Subtotal(), 36.90) {
		t.Errorf("Subtotal() = %v, want persisted 36.90", l.Subtotal())
	}
	if !almostEqual(l.CoinDiscount(), 30.00) {
		t.Errorf("CoinDiscount() = %v, want persisted 30.00", l.CoinDiscount())
	}
	if !almostEqual(l.FinalTotal(), 3.90) {
		t.Errorf("FinalTotal() = %v, want persisted 3.90", l.FinalTotal())
	}
	if l.CoinsUsed() != 300 {
		t.Errorf("CoinsUsed() = %d, want 300", l.CoinsUsed())
	}
	if len(l.Items()) != len(items) {
		t.Errorf("Items() has %d entries, want %d", len(l.Items()), len(items))
	}
}

func TestRestoreWithoutSnapshotRecomputes(t *testing.T) {
	l := New()
	l.Restore(exampleItems(), 50, nil)

	if !almostEqual(l.Subtotal(), 36.90) {
		t.Errorf("Subtotal() = %v, want recomputed 36.90", l.Subtotal())
	}
	if !almostEqual(l.CoinDiscount(), 5.00) {
		t.Errorf("CoinDiscount() = %v, want 5.00", l.CoinDiscount())
	}
	if !almostEqual(l.FinalTotal(), 31.90) {
		t.Errorf("FinalTotal() = %v, want 31.90", l.FinalTotal())
	}
}

// Voucher before coins is significant: applying coins against the
// pre-voucher subtotal would allow more coins than the remainder covers.
func TestDiscountOrderIsVoucherThenCoins(t *testing.T) {
	l := New()
	l.AppendItems([]LineItem{NewLineItem("Laksa", 20.00, 1, nil, nil, nil)}, 0)
	l.SetVoucher(FlatVoucher{Amount: 10.00, MinSpend: 0})

	// Post-voucher remaining is 10.00, so only 100 coins fit — not the
	// 200 the gross subtotal would allow.
	if got := l.MaxRedeemableCoins(); got != 100 {
		t.Errorf("MaxRedeemableCoins() = %d, want 100", got)
	}
	if l.CanUseCoins(150, 1000) {
		t.Error("CanUseCoins(150, 1000) = true, want false against post-voucher amount")
	}
}

// Sweep a few hundred random-ish mutations and check the invariants the
// ledger promises regardless of call order.
func TestInvariantsHoldAcrossMutationSequences(t *testing.T) {
	l := New()
	vouchers := []Voucher{
		nil,
		FlatVoucher{Amount: 5.00, MinSpend: 10.00},
		PercentVoucher{Rate: 0.15, Cap: 4.00, MinSpend: 5.00},
		FlatVoucher{Amount: 100.00, MinSpend: 0},
	}

	for i := 0; i < 200; i++ {
		switch i % 4 {
		case 0:
			l.AppendItems([]LineItem{NewLineItem("Rice", float64(i%7)+0.5, i%3+1, nil, nil, nil)}, i%5)
		case 1:
			l.SetVoucher(vouchers[i%len(vouchers)])
		case 2:
			l.SetCoinsUsed(i*3 - 50)
		case 3:
			l.SetCoinsUsedValidated(i, i%100)
		}

		if l.FinalTotal() < 0 {
			t.Fatalf("step %d: FinalTotal() = %v < 0", i, l.FinalTotal())
		}
		if l.CoinsUsed() > l.MaxRedeemableCoins() {
			t.Fatalf("step %d: CoinsUsed() = %d exceeds cap %d", i, l.CoinsUsed(), l.MaxRedeemableCoins())
		}
		if l.CoinsUsed() < 0 {
			t.Fatalf("step %d: CoinsUsed() = %d < 0", i, l.CoinsUsed())
		}
		want := l.Subtotal() - l.VoucherDiscount() - l.CoinDiscount()
		if want < 0 {
			want = 0
		}
		if !almostEqual(l.FinalTotal(), want) {
			t.Fatalf("step %d: FinalTotal() = %v, want %v", i, l.FinalTotal(), want)
		}
	}
}
