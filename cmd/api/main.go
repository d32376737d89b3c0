package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/api"
	"storefront/internal/api/handlers"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/repo"
	"storefront/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New("storefront-api", cfg.Common.LogLevel)

	tokenTTL, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Str("ttl", cfg.Auth.TokenTTL).Msg("bad token ttl")
	}

	ctxDB, cancelDB := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDB()

	db, err := pgxpool.New(ctxDB, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("pg connect failed")
	}
	defer db.Close()

	redis := cache.New(cfg.Redis.Addr)

	usersRepo := &repo.UsersPG{DB: db}
	productsRepo := &repo.ProductsPG{DB: db}
	productsCached := &repo.ProductsCached{PG: productsRepo, Redis: redis, TTL: 5 * time.Minute}
	cartsRepo := &repo.CartsPG{DB: db}
	addressesRepo := &repo.AddressesPG{DB: db}
	ordersRepo := &repo.OrdersPG{DB: db, Outbox: &repo.OutboxPG{}}
	resets := &repo.ResetTokens{Redis: redis, TTL: time.Hour}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, tokenTTL)

	cartsSvc := &service.CartsService{Carts: cartsRepo, Products: productsCached}
	ordersSvc := &service.OrdersService{Orders: ordersRepo, Carts: cartsRepo, Users: usersRepo}

	authH := &handlers.AuthHandler{Users: usersRepo, Tokens: tokens, Resets: resets, Log: log}
	productsH := &handlers.ProductsHandler{Repo: productsRepo, Getter: productsCached, Log: log}
	cartH := &handlers.CartHandler{Carts: cartsSvc, Log: log}
	ordersH := &handlers.OrdersHandler{Orders: ordersSvc, Log: log}
	userH := &handlers.UserHandler{Users: usersRepo, Addresses: addressesRepo, Log: log}

	router := api.NewRouter(&api.Handlers{
		Health: api.Health,

		Login:          authH.Login,
		Register:       authH.Register,
		ForgotPassword: authH.ForgotPassword,
		ResetPassword:  authH.ResetPassword,

		ListProducts:   productsH.List,
		GetProduct:     productsH.Get,
		SearchProducts: productsH.Search,
		ListCategories: productsH.Categories,
		ProductsByCat:  productsH.ByCategory,

		GetCart:        cartH.Get,
		AddCartItem:    cartH.AddItem,
		UpdateCartItem: cartH.UpdateItem,
		RemoveCartItem: cartH.RemoveItem,
		ClearCart:      cartH.Clear,
		CartCount:      cartH.Count,

		CreateOrder: ordersH.Create,
		ListOrders:  ordersH.List,
		GetOrder:    ordersH.Get,
		CancelOrder: ordersH.Cancel,

		GetProfile:     userH.GetProfile,
		UpdateProfile:  userH.UpdateProfile,
		ChangePassword: userH.ChangePassword,
		ListAddresses:  userH.ListAddresses,
		AddAddress:     userH.AddAddress,
		UpdateAddress:  userH.UpdateAddress,
		DeleteAddress:  userH.DeleteAddress,
	}, tokens)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutdown...")
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
}
