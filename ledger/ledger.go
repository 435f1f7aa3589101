// Package ledger prices an order: it accumulates confirmed line items,
// applies an optional voucher and redeemed loyalty coins, and exposes the
// resulting totals. Everything is in-memory arithmetic; there is no I/O
// and no locking. A Ledger has a single logical owner — callers sharing
// one across goroutines must serialize access themselves.
package ledger

import (
	"math"
	"slices"
)

const (
	// CoinValue is the redemption value of one loyalty coin in RM.
	CoinValue = 0.10

	coinValueCents = 10

	// EarnRate is how many coins one whole RM of gross spend earns.
	EarnRate = 1
)

// Snapshot carries the derived totals of a persisted order so it can be
// restored exactly as it was charged.
type Snapshot struct {
	Subtotal     float64
	CoinDiscount float64
	FinalTotal   float64
}

// Ledger holds the confirmed items of one order together with the
// voucher and coin redemption applied to it. The zero value is usable;
// New is provided for symmetry with the rest of the codebase.
type Ledger struct {
	items     []LineItem
	voucher   Voucher
	coinsUsed int

	subtotal        float64
	voucherDiscount float64
	coinDiscount    float64
	finalTotal      float64
}

func New() *Ledger {
	return &Ledger{}
}

// AppendItems adds confirmed items and any coins pledged along with them,
// then recomputes the totals. Item contents are trusted; the cart layer
// validates before confirming.
func (l *Ledger) AppendItems(items []LineItem, coinsUsedNow int) {
	l.items = append(l.items, items...)
	l.coinsUsed += coinsUsedNow
	l.recalc()
}

// SetVoucher replaces the active voucher; nil clears it.
func (l *Ledger) SetVoucher(v Voucher) {
	l.voucher = v
	l.recalc()
}

// SetCoinsUsed sets the requested coin count. Negative values clamp to
// zero; recalc clamps the upper bound against the post-voucher amount.
func (l *Ledger) SetCoinsUsed(n int) {
	if n < 0 {
		n = 0
	}
	l.coinsUsed = n
	l.recalc()
}

// CanUseCoins reports whether n coins may be redeemed given the user's
// balance and the current post-voucher amount.
func (l *Ledger) CanUseCoins(n, balance int) bool {
	if n < 0 || n > balance {
		return false
	}
	return n <= l.MaxRedeemableCoins()
}

// SetCoinsUsedValidated applies n only when CanUseCoins allows it.
// On rejection the ledger is left untouched and false is returned.
func (l *Ledger) SetCoinsUsedValidated(n, balance int) bool {
	if !l.CanUseCoins(n, balance) {
		return false
	}
	l.coinsUsed = n
	l.recalc()
	return true
}

// MaxRedeemableCoins is the coin cap implied by the post-voucher amount.
// The division happens on integer cents so that e.g. RM 33.90 remaining
// allows exactly 339 coins.
func (l *Ledger) MaxRedeemableCoins() int {
	remaining := l.subtotal - l.voucherDiscount
	if remaining <= 0 {
		return 0
	}
	return int(toCents(remaining) / coinValueCents)
}

// recalc recomputes every derived field. Voucher before coins: the coin
// cap is taken against the post-voucher amount, so swapping the order
// would change how many coins are redeemable.
func (l *Ledger) recalc() {
	var subtotal float64
	for _, it := range l.items {
		subtotal += it.TotalPrice()
	}
	l.subtotal = roundCents(subtotal)

	l.voucherDiscount = 0
	if l.voucher != nil {
		l.voucherDiscount = l.voucher.DiscountFor(l.subtotal)
	}

	if l.coinsUsed < 0 {
		l.coinsUsed = 0
	}
	if max := l.MaxRedeemableCoins(); l.coinsUsed > max {
		// Clamp down silently, never up.
		l.coinsUsed = max
	}
	l.coinDiscount = roundCents(float64(l.coinsUsed) * CoinValue)

	total := l.subtotal - l.voucherDiscount - l.coinDiscount
	if total < 0 {
		// Excess discount is lost, never carried over or refunded.
		total = 0
	}
	l.finalTotal = roundCents(total)
}

// CoinsToEarn rewards gross spend: one coin per whole RM of the
// pre-discount subtotal, floored.
func (l *Ledger) CoinsToEarn() int {
	if l.subtotal <= 0 {
		return 0
	}
	return int(toCents(l.subtotal)/100) * EarnRate
}

// Clear resets the ledger to its empty state. Used after a checkout
// completes or is abandoned.
func (l *Ledger) Clear() {
	*l = Ledger{}
}

// Restore replaces the ledger contents with a previously persisted order.
// A non-nil snapshot is trusted verbatim — no recompute — so a historical
// discount breakdown survives reload exactly even if pricing rules have
// since changed. Without a snapshot the totals are recomputed.
func (l *Ledger) Restore(items []LineItem, coinsUsed int, snap *Snapshot) {
	l.items = slices.Clone(items)
	l.voucher = nil
	if coinsUsed < 0 {
		coinsUsed = 0
	}
	l.coinsUsed = coinsUsed
	if snap != nil {
		l.subtotal = snap.Subtotal
		l.voucherDiscount = 0
		l.coinDiscount = snap.CoinDiscount
		l.finalTotal = snap.FinalTotal
		return
	}
	l.recalc()
}

// --- Read accessors ---

// Items returns a copy of the confirmed line items.
func (l *Ledger) Items() []LineItem {
	return slices.Clone(l.items)
}

func (l *Ledger) ActiveVoucher() Voucher { return l.voucher }
func (l *Ledger) CoinsUsed() int         { return l.coinsUsed }
func (l *Ledger) Subtotal() float64      { return l.subtotal }
func (l *Ledger) VoucherDiscount() float64 {
	return l.voucherDiscount
}
func (l *Ledger) CoinDiscount() float64 { return l.coinDiscount }
func (l *Ledger) FinalTotal() float64   { return l.finalTotal }

// --- Money helpers ---

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func roundCents(v float64) float64 {
	return float64(toCents(v)) / 100
}
