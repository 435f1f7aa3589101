package feedback

import (
	"context"
	"encoding/json"
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

// SubmitFeedback records a rating for a collected order. One per order.
func SubmitFeedback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID := ps.ByName("orderid")

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("SubmitFeedback order lookup error:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if order.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if order.Status != models.OrderCollected {
		http.Error(w, "Order not collected yet", http.StatusConflict)
		return
	}

	count, err := db.FeedbackCollection.CountDocuments(ctx, bson.M{"orderId": orderID})
	if err != nil {
		log.Println("SubmitFeedback count error:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "You have already rated this order", http.StatusConflict)
		return
	}

	var fb models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil || fb.Rating < 1 || fb.Rating > 5 {
		http.Error(w, "Invalid feedback data", http.StatusBadRequest)
		return
	}

	fb.FeedbackID = utils.GenerateRandomString(16)
	fb.OrderID = orderID
	fb.StallID = order.StallID
	fb.UserID = userID
	fb.CreatedAt = time.Now()

	if _, err := db.FeedbackCollection.InsertOne(ctx, fb); err != nil {
		log.Println("SubmitFeedback insert error:", err)
		http.Error(w, "Failed to save feedback", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, fb)
}

// GetStallFeedback lists a stall's feedback newest first, with the
// running average rating.
func GetStallFeedback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stallID := ps.ByName("stallid")
	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	list, err := utils.FindAndDecode[models.Feedback](ctx, db.FeedbackCollection, bson.M{"stallId": stallID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve feedback")
		return
	}

	avg, err := averageRating(ctx, stallID)
	if err != nil {
		log.Println("GetStallFeedback average error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"feedback": list, "averageRating": avg})
}

func averageRating(ctx context.Context, stallID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"stallId": stallID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
	cur, err := db.FeedbackCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Avg, nil
}
