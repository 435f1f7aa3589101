package routes

import (
	"net/http"

	"kedai/cart"
	"kedai/checkout"
	"kedai/coins"
	"kedai/feedback"
	"kedai/menu"
	"kedai/middleware"
	"kedai/orders"
	"kedai/pay"
	"kedai/ratelim"
	"kedai/utils"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/menupic/*filepath", http.Dir("static/menupic"))
}

func AddMenuRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	staff := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("staff", "admin"),
	)

	router.GET("/api/menu/:stallid", rateLimiter.Limit(menu.GetMenuItems))
	router.GET("/api/menu/:stallid/:menuid", rateLimiter.Limit(menu.GetMenuItem))
	router.POST("/api/menu/:stallid", staff(menu.CreateMenuItem))
	router.PUT("/api/menu/:stallid/:menuid", staff(menu.EditMenuItem))
	router.DELETE("/api/menu/:stallid/:menuid", staff(menu.DeleteMenuItem))
	router.POST("/api/menu/:stallid/:menuid/photo", staff(menu.UploadMenuPhoto))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	user := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/cart", user(cart.GetCart))
	router.POST("/api/cart", user(cart.AddToCart))
	router.PUT("/api/cart/:lineid", user(cart.UpdateQuantity))
	router.DELETE("/api/cart/:lineid", user(cart.RemoveLine))
	router.DELETE("/api/cart", user(cart.ClearCart))
	router.GET("/api/cart/quote", user(cart.QuoteCart))
}

func AddCheckoutRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	user := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.POST("/api/checkout/session", user(checkout.StartCheckout))
	router.GET("/api/checkout/session/:sessionid", user(checkout.GetQuote))
	router.POST("/api/checkout/session/:sessionid/voucher", user(checkout.ApplyVoucher))
	router.POST("/api/checkout/session/:sessionid/coins", user(checkout.ApplyCoins))
	router.POST("/api/checkout/session/:sessionid/place", user(checkout.PlaceOrder))
	router.DELETE("/api/checkout/session/:sessionid", user(checkout.AbandonCheckout))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *orders.Hub) {
	user := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	staff := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("staff", "admin"),
	)

	router.GET("/api/orders", user(orders.GetOrders))
	router.GET("/api/orders/:orderid", user(orders.GetOrder))
	router.GET("/api/orders/:orderid/receipt", user(orders.GetReceipt))
	router.PUT("/api/orders/:orderid/status", staff(orders.UpdateOrderStatus(hub)))
	router.GET("/ws/orders/:orderid", middleware.Authenticate(orders.WebSocketHandler(hub)))
}

func AddPayRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	user := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/pay/methods", rateLimiter.Limit(pay.ListMethods))
	router.GET("/api/pay/transactions", user(pay.ListTransactions))
}

func AddCoinRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	user := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/coins/balance", user(coins.GetBalance))
	router.GET("/api/coins/history", user(coins.GetHistory))
}

func AddFeedbackRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	user := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.POST("/api/feedback/:orderid", user(feedback.SubmitFeedback))
	router.GET("/api/feedback/stall/:stallid", rateLimiter.Limit(feedback.GetStallFeedback))
}

func AddMiscRoutes(router *httprouter.Router) {
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
