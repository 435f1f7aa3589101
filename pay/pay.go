package pay

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"kedai/db"
	"kedai/models"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Payment methods offered at checkout.
const (
	MethodCard    = "card"
	MethodEwallet = "ewallet"
	MethodCounter = "counter" // pay cash when collecting
)

// DeclinedTestCard is the card number the simulator always declines, so
// client teams can exercise the failure path.
const DeclinedTestCard = "4000000000000002"

// Result is the simulated gateway's verdict.
type Result struct {
	Approved  bool
	Reference string
	Reason    string
}

// Process simulates gateway behavior deterministically. There is no real
// gateway behind this; approval rules are fixed so flows are repeatable.
func Process(req models.PaymentRequest) (Result, error) {
	switch req.Method {
	case MethodCard, MethodEwallet, MethodCounter:
	default:
		return Result{}, fmt.Errorf("unsupported payment method %q", req.Method)
	}

	if req.Amount < 0 {
		return Result{Approved: false, Reason: "negative amount"}, nil
	}

	// A fully coin/voucher-covered order has nothing to charge.
	if req.Amount == 0 {
		return Result{Approved: true, Reference: "FREE-" + utils.GenerateRandomString(8)}, nil
	}

	if req.Method == MethodCard && strings.ReplaceAll(req.CardNumber, " ", "") == DeclinedTestCard {
		return Result{Approved: false, Reason: "card declined"}, nil
	}

	// Counter payments are settled at pickup; the "gateway" only reserves
	// them.
	return Result{Approved: true, Reference: strings.ToUpper(req.Method[:2]) + "-" + utils.GenerateRandomString(10)}, nil
}

// ProcessAndRecord runs the simulation and persists the transaction
// record with its outcome.
func ProcessAndRecord(ctx context.Context, req models.PaymentRequest, idempotencyKey string) (Result, models.Transaction, error) {
	txn := models.Transaction{
		ID:             utils.GetUUID(),
		UserID:         req.UserID,
		OrderID:        req.OrderID,
		Method:         req.Method,
		Amount:         req.Amount,
		Currency:       "MYR",
		Status:         "initiated",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		IdempotencyKey: idempotencyKey,
	}

	result, err := Process(req)
	if err != nil {
		return Result{}, models.Transaction{}, err
	}

	if result.Approved {
		txn.Status = "success"
		txn.Reference = result.Reference
	} else {
		txn.Status = "failed"
		txn.Meta = models.Meta{"reason": result.Reason}
	}
	txn.UpdatedAt = time.Now()

	if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
		return Result{}, models.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	return result, txn, nil
}

// ListMethods returns the payment method catalog.
func ListMethods(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, []utils.M{
		{"id": MethodCard, "label": "Credit / Debit Card"},
		{"id": MethodEwallet, "label": "E-Wallet"},
		{"id": MethodCounter, "label": "Pay at Counter"},
	})
}

// ListTransactions returns paginated payment transactions for the
// logged-in user.
func ListTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 50)
	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit).
		SetSkip(skip)

	txns, err := utils.FindAndDecode[models.Transaction](ctx, db.TransactionCollection, bson.M{"userid": userID}, findOptions)
	if err != nil {
		log.Printf("ListTransactions: DB error for user %s, err=%v\n", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"transactions": txns})
}
