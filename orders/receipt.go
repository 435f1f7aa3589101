package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"kedai/db"
	"kedai/globals"
	"kedai/ledger"
	"kedai/models"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetReceipt renders the order as a PDF with a signed pickup QR code.
func GetReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": ps.ByName("orderid")}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetReceipt error:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if order.UserID != userID && !utils.HasRole(r, "staff", "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	pdfBytes, err := renderReceipt(order)
	if err != nil {
		log.Println("GetReceipt render error:", err)
		http.Error(w, "Failed to generate receipt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, order.OrderID))
	w.Write(pdfBytes)
}

// renderReceipt re-hydrates the stored pricing snapshot and lays it out.
// The totals printed are the stored ones, never a recomputation.
func renderReceipt(order models.Order) ([]byte, error) {
	items := make([]ledger.LineItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, ledger.NewLineItem(it.FoodName, it.BasePrice, it.Quantity, it.AddOns, it.Removals, it.AddOnPrices))
	}
	l := ledger.New()
	l.Restore(items, order.CoinsUsed, &ledger.Snapshot{
		Subtotal:     order.Subtotal,
		CoinDiscount: order.CoinDiscount,
		FinalTotal:   order.FinalTotal,
	})

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Receipt "+order.OrderID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Kedai Order Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Order "+order.OrderID, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, order.CreatedAt.Format("2 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range l.Items() {
		pdf.CellFormat(70, 7, it.FoodName, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("RM %.2f", it.TotalPrice()), "", 1, "R", false, 0, "")
		for _, a := range it.AddOns {
			pdf.CellFormat(70, 5, "  + "+a, "", 1, "L", false, 0, "")
		}
		for _, rm := range it.Removals {
			pdf.CellFormat(70, 5, "  - no "+rm, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(2)

	totalRow := func(label string, amount float64) {
		pdf.CellFormat(85, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("RM %.2f", amount), "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal", l.Subtotal())
	if order.VoucherDiscount > 0 {
		totalRow("Voucher ("+order.VoucherCode+")", -order.VoucherDiscount)
	}
	if order.CoinsUsed > 0 {
		totalRow(fmt.Sprintf("Coins (%d)", order.CoinsUsed), -l.CoinDiscount())
	}
	pdf.SetFont("Helvetica", "B", 11)
	totalRow("Total paid", l.FinalTotal())
	pdf.SetFont("Helvetica", "", 10)
	if order.CoinsEarned > 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Coins earned: %d", order.CoinsEarned), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	png, err := qrcode.Encode(pickupPayload(order), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pickup-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("pickup-qr", 53, pdf.GetY(), 42, 42, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 44)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Pickup code: "+order.PickupCode, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pickupPayload signs the pickup code so a stall scanner can verify it
// offline.
func pickupPayload(order models.Order) string {
	mac := hmac.New(sha256.New, globals.JwtSecret)
	fmt.Fprintf(mac, "%s|%s", order.OrderID, order.PickupCode)
	return fmt.Sprintf("%s|%s|%s", order.OrderID, order.PickupCode, hex.EncodeToString(mac.Sum(nil)))
}

// VerifyPickupSignature checks a scanned QR payload's signature.
func VerifyPickupSignature(orderID, pickupCode, sig string) bool {
	mac := hmac.New(sha256.New, globals.JwtSecret)
	fmt.Fprintf(mac, "%s|%s", orderID, pickupCode)
	want, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(want, mac.Sum(nil))
}
