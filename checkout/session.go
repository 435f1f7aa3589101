// Package checkout owns the order pricing ledger for the duration of a
// checkout: a session is created from the cart, priced through vouchers
// and coin redemption, and discarded once the order is placed or
// abandoned.
package checkout

import (
	"fmt"
	"sync"
	"time"

	"kedai/ledger"
	"kedai/models"
	"kedai/utils"
)

// Session is one in-flight checkout. It is the single owner of its
// ledger; all access goes through the store so the lock-free ledger is
// never touched concurrently.
type Session struct {
	ID          string
	UserID      string
	VoucherCode string
	Lines       []models.CartLine
	Ledger      *ledger.Ledger
	CreatedAt   time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

var store = &sessionStore{sessions: make(map[string]*Session)}

// create builds a session around a fresh ledger seeded with the cart.
func (s *sessionStore) create(userID string, lines []models.CartLine) *Session {
	l := ledger.New()
	items := make([]ledger.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, ledger.NewLineItem(line.FoodName, line.BasePrice, line.Quantity, line.AddOns, line.Removals, line.AddOnPrices))
	}
	l.AppendItems(items, 0)

	sess := &Session{
		ID:        utils.GenerateRandomString(16),
		UserID:    userID,
		Lines:     lines,
		Ledger:    l,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// with runs fn against the session while holding the store lock, keeping
// the single-writer discipline the ledger requires.
func (s *sessionStore) with(sessionID, userID string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return errSessionNotFound
	}
	return fn(sess)
}

// discard drops the session and clears its ledger.
func (s *sessionStore) discard(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.Ledger.Clear()
		delete(s.sessions, sessionID)
	}
}

var errSessionNotFound = fmt.Errorf("checkout session not found")

// voucherFromDoc maps a stored voucher onto the engine's closed variant
// set. The switch is exhaustive over the stored kinds.
func voucherFromDoc(doc models.VoucherDoc) (ledger.Voucher, error) {
	switch doc.Kind {
	case models.VoucherFlat:
		return ledger.FlatVoucher{Amount: doc.Amount, MinSpend: doc.MinSpend}, nil
	case models.VoucherPercent:
		return ledger.PercentVoucher{Rate: doc.Rate, Cap: doc.Cap, MinSpend: doc.MinSpend}, nil
	default:
		return nil, fmt.Errorf("unknown voucher kind %q", doc.Kind)
	}
}

// quote is the totals payload handed to the client after every mutation.
func quote(sess *Session) utils.M {
	l := sess.Ledger
	return utils.M{
		"sessionId":       sess.ID,
		"subtotal":        l.Subtotal(),
		"voucherCode":     sess.VoucherCode,
		"voucherDiscount": l.VoucherDiscount(),
		"coinsUsed":       l.CoinsUsed(),
		"coinDiscount":    l.CoinDiscount(),
		"finalTotal":      l.FinalTotal(),
		"maxCoins":        l.MaxRedeemableCoins(),
		"coinsToEarn":     l.CoinsToEarn(),
	}
}
