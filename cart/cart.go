package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"kedai/db"
	"kedai/ledger"
	"kedai/models"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ToLineItem converts a stored cart line into the pricing engine's value
// type.
func ToLineItem(line models.CartLine) ledger.LineItem {
	return ledger.NewLineItem(line.FoodName, line.BasePrice, line.Quantity, line.AddOns, line.Removals, line.AddOnPrices)
}

// findMergeTarget returns the index of an existing line the new line
// should merge into, or -1. Two lines merge when they are the same menu
// item with the same customization, regardless of add-on order.
func findMergeTarget(existing []models.CartLine, incoming models.CartLine) int {
	for i, line := range existing {
		if line.MenuID != incoming.MenuID {
			continue
		}
		if ledger.SameConfiguration(ToLineItem(line), ToLineItem(incoming)) {
			return i
		}
	}
	return -1
}

// AddToCart appends a customized item, merging with an identically
// configured line when one exists.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var line models.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if line.MenuID == "" || line.FoodName == "" || line.BasePrice < 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.UserID = userID
	line.AddedAt = time.Now()

	existing, err := utils.FindAndDecode[models.CartLine](ctx, db.CartCollection, bson.M{"userId": userID})
	if err != nil {
		log.Println("AddToCart Find error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	if i := findMergeTarget(existing, line); i >= 0 {
		_, err = db.CartCollection.UpdateOne(ctx,
			bson.M{"lineId": existing[i].LineID},
			bson.M{"$inc": bson.M{"quantity": line.Quantity}},
		)
		if err != nil {
			log.Println("AddToCart merge error:", err)
			http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "merged", "lineId": existing[i].LineID})
		return
	}

	line.LineID = utils.GenerateRandomString(14)
	if _, err := db.CartCollection.InsertOne(ctx, line); err != nil {
		log.Println("AddToCart InsertOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added", "lineId": line.LineID})
}

// GetCart returns all cart lines for the user.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lines, err := utils.FindAndDecode[models.CartLine](ctx, db.CartCollection, bson.M{"userId": userID})
	if err != nil {
		log.Println("GetCart Find error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		lines = []models.CartLine{}
	}

	utils.RespondWithJSON(w, http.StatusOK, lines)
}

// UpdateQuantity sets a line's quantity, clamped to at least 1.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.Quantity < 1 {
		body.Quantity = 1
	}

	result, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"lineId": ps.ByName("lineid"), "userId": userID},
		bson.M{"$set": bson.M{"quantity": body.Quantity}},
	)
	if err != nil {
		log.Println("UpdateQuantity error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Cart line not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveLine deletes one cart line.
func RemoveLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := db.CartCollection.DeleteOne(ctx, bson.M{"lineId": ps.ByName("lineid"), "userId": userID})
	if err != nil {
		log.Println("RemoveLine error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Cart line not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearCart removes every line for the user.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("ClearCart error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// QuoteCart prices the current cart through a throwaway ledger, before
// any voucher or coins.
func QuoteCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lines, err := FetchLines(ctx, userID)
	if err != nil {
		log.Println("QuoteCart Find error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	l := ledger.New()
	l.AppendItems(linesToItems(lines), 0)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"subtotal":    l.Subtotal(),
		"coinsToEarn": l.CoinsToEarn(),
		"lines":       len(lines),
	})
}

// FetchLines loads a user's cart lines; shared with checkout.
func FetchLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	return utils.FindAndDecode[models.CartLine](ctx, db.CartCollection, bson.M{"userId": userID})
}

// Clear drops a user's cart; shared with checkout after an order lands.
func Clear(ctx context.Context, userID string) error {
	_, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func linesToItems(lines []models.CartLine) []ledger.LineItem {
	items := make([]ledger.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, ToLineItem(line))
	}
	return items
}
