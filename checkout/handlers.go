package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kedai/cart"
	"kedai/coins"
	"kedai/db"
	"kedai/ledger"
	"kedai/models"
	"kedai/mq"
	"kedai/pay"
	"kedai/rdx"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// lockTTL defines the duration to hold the Redis lock per user while an
// order is being placed.
const lockTTL = 5 * time.Second

// StartCheckout creates a session from the user's current cart.
func StartCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lines, err := cart.FetchLines(ctx, userID)
	if err != nil {
		log.Println("StartCheckout cart error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	sess := store.create(userID, lines)
	utils.RespondWithJSON(w, http.StatusCreated, quote(sess))
}

// GetQuote returns the session's current totals.
func GetQuote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload utils.M
	err := store.with(ps.ByName("sessionid"), userID, func(sess *Session) error {
		payload = quote(sess)
		return nil
	})
	if err != nil {
		http.Error(w, "Checkout session not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// ApplyVoucher sets or clears the session's voucher by code.
func ApplyVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var payload utils.M
	var rejection string
	err := store.with(ps.ByName("sessionid"), userID, func(sess *Session) error {
		if body.Code == "" {
			sess.VoucherCode = ""
			sess.Ledger.SetVoucher(nil)
			payload = quote(sess)
			return nil
		}

		var doc models.VoucherDoc
		err := db.VoucherCollection.FindOne(ctx, bson.M{"code": body.Code}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			rejection = "Voucher not found"
			return nil
		}
		if err != nil {
			return err
		}
		if !doc.Active {
			rejection = "Voucher inactive"
			return nil
		}
		if time.Now().After(doc.ExpiresAt) {
			rejection = "Voucher expired"
			return nil
		}

		voucher, err := voucherFromDoc(doc)
		if err != nil {
			return err
		}
		sess.VoucherCode = doc.Code
		sess.Ledger.SetVoucher(voucher)
		payload = quote(sess)
		return nil
	})
	if errors.Is(err, errSessionNotFound) {
		http.Error(w, "Checkout session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("ApplyVoucher error:", err)
		http.Error(w, "Failed to apply voucher", http.StatusInternalServerError)
		return
	}
	if rejection != "" {
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.M{"valid": false, "message": rejection})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// ApplyCoins sets the coins to redeem through the validating entry point;
// an out-of-range request leaves the session untouched.
func ApplyCoins(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Coins int `json:"coins"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	balance, err := coins.Balance(ctx, userID)
	if err != nil {
		log.Println("ApplyCoins balance error:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var payload utils.M
	accepted := false
	err = store.with(ps.ByName("sessionid"), userID, func(sess *Session) error {
		accepted = sess.Ledger.SetCoinsUsedValidated(body.Coins, balance)
		payload = quote(sess)
		return nil
	})
	if err != nil {
		http.Error(w, "Checkout session not found", http.StatusNotFound)
		return
	}

	if !accepted {
		payload["valid"] = false
		payload["balance"] = balance
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, payload)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// AbandonCheckout discards the session without ordering.
func AbandonCheckout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := ps.ByName("sessionid")
	err := store.with(sessionID, userID, func(*Session) error { return nil })
	if err != nil {
		http.Error(w, "Checkout session not found", http.StatusNotFound)
		return
	}

	store.discard(sessionID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

// PlaceOrder charges the session's final total through the simulated
// gateway and, on approval, writes the order with its priced snapshot,
// settles coins both ways and clears the cart.
func PlaceOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := context.Background()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Method     string `json:"method"`
		CardNumber string `json:"cardNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey != "" {
		var existing models.Order
		if err := db.OrderCollection.FindOne(ctx, bson.M{"idempotencyKey": idempotencyKey, "userId": userID}).Decode(&existing); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"order": existing, "replayed": true})
			return
		}
	}

	// One order placement per user at a time.
	acquired, err := rdx.RdxSetNX("checkout_lock:"+userID, "1", lockTTL)
	if err != nil || !acquired {
		http.Error(w, "please retry", http.StatusTooManyRequests)
		return
	}
	defer rdx.RdxDel("checkout_lock:" + userID)

	var order models.Order
	var declined string
	err = store.with(ps.ByName("sessionid"), userID, func(sess *Session) error {
		l := sess.Ledger

		result, txn, err := pay.ProcessAndRecord(ctx, models.PaymentRequest{
			UserID:     userID,
			Method:     body.Method,
			Amount:     l.FinalTotal(),
			CardNumber: body.CardNumber,
		}, idempotencyKey)
		if err != nil {
			return err
		}
		if !result.Approved {
			declined = result.Reason
			return nil
		}

		order = buildOrder(sess, body.Method, txn.ID)
		order.IdempotencyKey = idempotencyKey
		if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
			return err
		}

		if l.CoinsUsed() > 0 {
			if err := coins.Debit(ctx, userID, order.OrderID, l.CoinsUsed()); err != nil {
				log.Println("PlaceOrder coin debit error:", err)
			}
		}
		if earned := l.CoinsToEarn(); earned > 0 {
			if err := coins.Credit(ctx, userID, order.OrderID, earned); err != nil {
				log.Println("PlaceOrder coin credit error:", err)
			}
		}

		if err := cart.Clear(ctx, userID); err != nil {
			log.Println("PlaceOrder cart cleanup error:", err)
		}
		return nil
	})
	if errors.Is(err, errSessionNotFound) {
		http.Error(w, "Checkout session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("PlaceOrder error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}
	if declined != "" {
		utils.RespondWithJSON(w, http.StatusPaymentRequired, utils.M{"success": false, "message": "Payment failed: " + declined})
		return
	}

	// The session's job is done.
	store.discard(ps.ByName("sessionid"))

	go mq.EmitOrderEvent(ctx, mq.OrderEvent{
		OrderID: order.OrderID,
		UserID:  order.UserID,
		Status:  order.Status,
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"order": order})
}

func buildOrder(sess *Session, method, txnID string) models.Order {
	l := sess.Ledger
	items := make([]models.OrderItem, 0, len(sess.Lines))
	for _, line := range sess.Lines {
		item := ledger.NewLineItem(line.FoodName, line.BasePrice, line.Quantity, line.AddOns, line.Removals, line.AddOnPrices)
		items = append(items, models.OrderItem{
			FoodName:    line.FoodName,
			BasePrice:   line.BasePrice,
			Quantity:    item.Quantity,
			AddOns:      line.AddOns,
			Removals:    line.Removals,
			AddOnPrices: line.AddOnPrices,
			LineTotal:   item.TotalPrice(),
		})
	}

	stallID := ""
	if len(sess.Lines) > 0 {
		stallID = sess.Lines[0].StallID
	}

	return models.Order{
		OrderID:         "ORD" + utils.GenerateRandomDigitString(8),
		UserID:          sess.UserID,
		StallID:         stallID,
		Items:           items,
		Subtotal:        l.Subtotal(),
		VoucherCode:     sess.VoucherCode,
		VoucherDiscount: l.VoucherDiscount(),
		CoinsUsed:       l.CoinsUsed(),
		CoinDiscount:    l.CoinDiscount(),
		FinalTotal:      l.FinalTotal(),
		CoinsEarned:     l.CoinsToEarn(),
		PaymentMethod:   method,
		TransactionID:   txnID,
		Status:          models.OrderPending,
		PickupCode:      utils.GenerateRandomDigitString(6),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}
