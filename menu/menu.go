package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"kedai/db"
	"kedai/models"
	"kedai/rdx"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const cacheTTL = 10 * time.Minute

func cacheKey(stallID, menuID string) string {
	return fmt.Sprintf("menu:%s:%s", stallID, menuID)
}

func CreateMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	stallID := ps.ByName("stallid")

	if stallID == "" {
		http.Error(w, "Stall ID is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Name       string               `json:"name"`
		Category   string               `json:"category"`
		BasePrice  float64              `json:"basePrice"`
		AddOns     []models.AddOnOption `json:"addOns"`
		Removables []string             `json:"removables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(body.Name) == 0 || len(body.Name) > 100 {
		http.Error(w, "Name must be between 1 and 100 characters.", http.StatusBadRequest)
		return
	}
	if body.BasePrice < 0 {
		http.Error(w, "Invalid price value. Must be a non-negative number.", http.StatusBadRequest)
		return
	}
	for _, a := range body.AddOns {
		if a.Name == "" || a.Price < 0 {
			http.Error(w, "Add-ons need a name and a non-negative price.", http.StatusBadRequest)
			return
		}
	}

	item := models.MenuItem{
		MenuID:     utils.GenerateRandomString(14),
		StallID:    stallID,
		Name:       body.Name,
		Category:   body.Category,
		BasePrice:  body.BasePrice,
		AddOns:     body.AddOns,
		Removables: body.Removables,
		Available:  true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if _, err := db.MenuCollection.InsertOne(ctx, item); err != nil {
		http.Error(w, "Failed to insert menu item: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"ok":      true,
		"message": "Menu item created successfully.",
		"data":    item,
	})
}

// Fetch a single menu item, Redis-cached.
func GetMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stallID := ps.ByName("stallid")
	menuID := ps.ByName("menuid")
	key := cacheKey(stallID, menuID)

	if cached, err := rdx.RdxGet(key); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	var item models.MenuItem
	err := db.MenuCollection.FindOne(context.TODO(), bson.M{"stallid": stallID, "menuid": menuID}).Decode(&item)
	if err != nil {
		http.Error(w, fmt.Sprintf("Menu item not found: %v", err), http.StatusNotFound)
		return
	}

	if itemJSON, err := json.Marshal(item); err == nil {
		rdx.RdxSetWithTTL(key, string(itemJSON), cacheTTL)
	}

	utils.RespondWithJSON(w, http.StatusOK, item)
}

// List a stall's menu, optional ?category= filter.
func GetMenuItems(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"stallid": ps.ByName("stallid")}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}

	items, err := utils.FindAndDecode[models.MenuItem](ctx, db.MenuCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch menu")
		return
	}
	if len(items) == 0 {
		items = []models.MenuItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// Edit a menu item
func EditMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stallID := ps.ByName("stallid")
	menuID := ps.ByName("menuid")

	var body struct {
		Name       string               `json:"name"`
		Category   string               `json:"category"`
		BasePrice  *float64             `json:"basePrice"`
		AddOns     []models.AddOnOption `json:"addOns"`
		Removables []string             `json:"removables"`
		Available  *bool                `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input data", http.StatusBadRequest)
		return
	}

	updateFields := bson.M{"updatedAt": time.Now()}
	if body.Name != "" {
		updateFields["name"] = body.Name
	}
	if body.Category != "" {
		updateFields["category"] = body.Category
	}
	if body.BasePrice != nil {
		if *body.BasePrice < 0 {
			http.Error(w, "Invalid price value. Must be a non-negative number.", http.StatusBadRequest)
			return
		}
		updateFields["basePrice"] = *body.BasePrice
	}
	if body.AddOns != nil {
		updateFields["addOns"] = body.AddOns
	}
	if body.Removables != nil {
		updateFields["removables"] = body.Removables
	}
	if body.Available != nil {
		updateFields["available"] = *body.Available
	}

	result, err := db.MenuCollection.UpdateOne(
		context.TODO(),
		bson.M{"stallid": stallID, "menuid": menuID},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update menu item: %v", err), http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}

	// Invalidate the cache
	rdx.RdxDel(cacheKey(stallID, menuID))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Menu item updated successfully",
	})
}

// Delete a menu item
func DeleteMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stallID := ps.ByName("stallid")
	menuID := ps.ByName("menuid")

	result, err := db.MenuCollection.DeleteOne(context.TODO(), bson.M{"stallid": stallID, "menuid": menuID})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete menu item: %v", err), http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}

	rdx.RdxDel(cacheKey(stallID, menuID))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Menu item deleted successfully",
	})
}
