package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/web"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		panic(err)
	}
	log := logger.New("storefront-web", cfg.Common.LogLevel)

	server, err := web.NewServer(log, cfg.Web.APIURL, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		log.Fatal().Err(err).Msg("web server init failed")
	}

	srv := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("api", cfg.Web.APIURL).Msg("http started")
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
