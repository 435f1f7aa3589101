package menu

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"kedai/db"
	"kedai/rdx"
	"kedai/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const menuPicDir = "./static/menupic"

// UploadMenuPhoto stores a dish photo and a 300px thumbnail, then points
// the menu document at them.
func UploadMenuPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stallID := ps.ByName("stallid")
	menuID := ps.ByName("menuid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Photo file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusBadRequest)
		return
	}

	id := utils.GenerateRandomString(16)
	fileName := id + ".jpg"
	thumbDir := filepath.Join(menuPicDir, "thumb")
	photoPath := filepath.Join(menuPicDir, fileName)
	thumbPath := filepath.Join(thumbDir, fileName)

	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		http.Error(w, "Unable to save file", http.StatusInternalServerError)
		return
	}
	if err := imaging.Save(img, photoPath); err != nil {
		http.Error(w, "Unable to save file", http.StatusInternalServerError)
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		http.Error(w, "Unable to save thumbnail", http.StatusInternalServerError)
		return
	}

	photoURL := "/static/menupic/" + fileName
	thumbURL := "/static/menupic/thumb/" + fileName

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.MenuCollection.UpdateOne(ctx,
		bson.M{"stallid": stallID, "menuid": menuID},
		bson.M{"$set": bson.M{"photo": photoURL, "thumb": thumbURL, "updatedAt": time.Now()}},
	)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update menu item: %v", err), http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}

	rdx.RdxDel(cacheKey(stallID, menuID))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"photo": photoURL,
		"thumb": thumbURL,
	})
}
