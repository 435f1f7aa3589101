// Package coins manages the loyalty coin balance and its append-only
// ledger. One coin is worth RM 0.10 at redemption; gross spend earns one
// coin per whole RM.
package coins

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"kedai/db"
	"kedai/models"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Balance returns the user's current coin balance, zero when the user
// document does not exist yet.
func Balance(ctx context.Context, userID string) (int, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.CoinBalance, nil
}

// Credit adds earned coins to the balance and appends a ledger entry.
func Credit(ctx context.Context, userID, orderID string, coins int) error {
	if coins <= 0 {
		return nil
	}
	return apply(ctx, userID, orderID, "earn", coins, coins)
}

// Debit removes redeemed coins. The caller validates against the balance
// beforehand; as a backstop the stored balance never goes negative.
func Debit(ctx context.Context, userID, orderID string, coins int) error {
	if coins <= 0 {
		return nil
	}
	balance, err := Balance(ctx, userID)
	if err != nil {
		return err
	}
	delta := -coins
	if balance+delta < 0 {
		delta = -balance
	}
	return apply(ctx, userID, orderID, "redeem", coins, delta)
}

func apply(ctx context.Context, userID, orderID, kind string, coins, delta int) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$inc": bson.M{"coinBalance": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		opts,
	)
	if err != nil {
		return fmt.Errorf("update coin balance: %w", err)
	}

	entry := models.CoinEntry{
		EntryID:   utils.GetUUID(),
		UserID:    userID,
		OrderID:   orderID,
		Type:      kind,
		Coins:     coins,
		CreatedAt: time.Now(),
	}
	if _, err := db.CoinLedgerCollection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("append coin ledger: %w", err)
	}
	return nil
}

// GetBalance returns the logged-in user's coin balance.
func GetBalance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := Balance(r.Context(), userID)
	if err != nil {
		log.Printf("GetBalance: err for user %s: %v\n", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"balance": balance})
}

// GetHistory returns paginated coin ledger entries, newest first.
func GetHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit).
		SetSkip(skip)

	entries, err := utils.FindAndDecode[models.CoinEntry](r.Context(), db.CoinLedgerCollection, bson.M{"userId": userID}, findOptions)
	if err != nil {
		log.Printf("GetHistory: err for user %s: %v\n", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		entries = []models.CoinEntry{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"entries": entries})
}
