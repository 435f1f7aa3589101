package routes

import (
	"kedai/orders"
	"kedai/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *orders.Hub) {
	AddMenuRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddCheckoutRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter, hub)
	AddPayRoutes(router, rateLimiter)
	AddCoinRoutes(router, rateLimiter)
	AddFeedbackRoutes(router, rateLimiter)
	AddStaticRoutes(router)
	AddMiscRoutes(router)
}
