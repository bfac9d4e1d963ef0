package api

import (
	"net/http"

	"onlinemart-be/internal/auth"
	"onlinemart-be/internal/logger"
	"onlinemart-be/internal/middleware"
	"onlinemart-be/internal/user"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Watchlist *WatchlistHandler
}

// NewRouter wires every endpoint behind the shared middleware chain. Buyer
// and admin subtrees are gated on the role claim. The rate limiter runs after
// Authenticate on the gated subtrees so its buckets key on the user id; the
// auth endpoints are throttled by client IP since no identity exists yet.
func NewRouter(h Handlers, tokens *auth.TokenService) *mux.Router {
	r := mux.NewRouter()
	r.Use(logger.RequestIDMiddleware, logger.LoggingMiddleware)

	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)

	limiter := middleware.NewRateLimiter()
	api := r.PathPrefix("/api").Subrouter()

	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(limiter.Handle)
	authRoutes.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)

	buyer := api.PathPrefix("/buyer").Subrouter()
	buyer.Use(middleware.Authenticate(tokens), middleware.RequireRole(string(user.RoleBuyer)), limiter.Handle)

	// Fixed segments must be registered ahead of the {orderId} routes.
	buyer.HandleFunc("/orders/top/frequent", h.Orders.TopPurchased).Methods(http.MethodGet)
	buyer.HandleFunc("/orders/top/recent", h.Orders.RecentPurchased).Methods(http.MethodGet)
	buyer.HandleFunc("/orders", h.Orders.ListForBuyer).Methods(http.MethodGet)
	buyer.HandleFunc("/orders", h.Orders.Create).Methods(http.MethodPost)
	buyer.HandleFunc("/orders/{orderId}", h.Orders.GetForBuyer).Methods(http.MethodGet)
	buyer.HandleFunc("/orders/{orderId}/cancel", h.Orders.CancelForBuyer).Methods(http.MethodPatch)

	buyer.HandleFunc("/products", h.Products.ListAvailable).Methods(http.MethodGet)
	buyer.HandleFunc("/products/{productId}", h.Products.GetForBuyer).Methods(http.MethodGet)

	buyer.HandleFunc("/watchlist", h.Watchlist.List).Methods(http.MethodGet)
	buyer.HandleFunc("/watchlist", h.Watchlist.Add).Methods(http.MethodPost)
	buyer.HandleFunc("/watchlist/{productId}", h.Watchlist.Remove).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Authenticate(tokens), middleware.RequireRole(string(user.RoleAdmin)), limiter.Handle)

	admin.HandleFunc("/orders", h.Orders.ListForAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{orderId}", h.Orders.GetForAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{orderId}/complete", h.Orders.Complete).Methods(http.MethodPatch)
	admin.HandleFunc("/orders/{orderId}/cancel", h.Orders.CancelForAdmin).Methods(http.MethodPatch)

	admin.HandleFunc("/products", h.Products.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/products", h.Products.Create).Methods(http.MethodPost)
	admin.HandleFunc("/products/{productId}", h.Products.GetForAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/products/{productId}", h.Products.Update).Methods(http.MethodPatch)

	admin.HandleFunc("/summary/profit", h.Orders.MostProfitable).Methods(http.MethodGet)
	admin.HandleFunc("/summary/popular", h.Orders.TopPopular).Methods(http.MethodGet)
	admin.HandleFunc("/summary/total-sold", h.Orders.TotalSold).Methods(http.MethodGet)

	return r
}
