package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"kedai/db"
	"kedai/models"
	"kedai/mq"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// allowedTransitions maps a status to the statuses the kitchen may move
// it to next.
var allowedTransitions = map[string][]string{
	models.OrderPending:   {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing: {models.OrderReady, models.OrderCancelled},
	models.OrderReady:     {models.OrderCollected},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// GetOrders returns the caller's order history, newest first.
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	list, err := utils.FindAndDecode[models.Order](ctx, db.OrderCollection, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetOrders error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetOrder returns one order. Only the owner (or staff) may see it.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := findOrder(ctx, ps.ByName("orderid"))
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetOrder error:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if order.UserID != userID && !utils.HasRole(r, "staff", "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus moves an order along the kitchen flow and notifies
// watchers. Staff only (enforced at the route).
func UpdateOrderStatus(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}

		orderID := ps.ByName("orderid")
		order, err := findOrder(ctx, orderID)
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Println("UpdateOrderStatus error:", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if !transitionAllowed(order.Status, body.Status) {
			utils.RespondWithError(w, http.StatusConflict, "Cannot move order from "+order.Status+" to "+body.Status)
			return
		}

		_, err = db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderId": orderID},
			bson.M{"$set": bson.M{"status": body.Status, "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Println("UpdateOrderStatus update error:", err)
			http.Error(w, "Failed to update order", http.StatusInternalServerError)
			return
		}

		event := mq.OrderEvent{OrderID: orderID, UserID: order.UserID, Status: body.Status}
		go mq.EmitOrderEvent(context.Background(), event)
		if data, err := json.Marshal(event); err == nil {
			hub.Broadcast(orderID, data)
		}

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"orderId": orderID, "status": body.Status})
	}
}

func findOrder(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	return order, err
}
