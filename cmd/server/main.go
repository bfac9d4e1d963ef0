package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"onlinemart-be/internal/api"
	"onlinemart-be/internal/auth"
	"onlinemart-be/internal/config"
	"onlinemart-be/internal/db"
	"onlinemart-be/internal/logger"
	"onlinemart-be/internal/order"
	"onlinemart-be/internal/product"
	"onlinemart-be/internal/user"
	"onlinemart-be/internal/watchlist"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer,
		time.Duration(cfg.JWTTTLSeconds)*time.Second)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	watchlistRepo := watchlist.NewRepository(database)
	watchlistSvc := watchlist.NewService(watchlistRepo, userRepo, productRepo)

	// Bootstrap the admin account; a no-op when it already exists.
	if _, err := userSvc.CreateAdminIfMissing(context.Background(),
		cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to bootstrap admin account: %v", err)
	}

	router := api.NewRouter(api.Handlers{
		Auth:      api.NewAuthHandler(userSvc, tokens),
		Products:  api.NewProductHandler(productSvc),
		Orders:    api.NewOrderHandler(orderSvc),
		Watchlist: api.NewWatchlistHandler(watchlistSvc),
	}, tokens)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("server listening on :%s", cfg.AppPort)
	log.Fatal(srv.ListenAndServe())
}
