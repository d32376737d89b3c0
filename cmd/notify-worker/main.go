package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/rabbit"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		panic(err)
	}
	log := logger.New("notify-worker", cfg.Common.LogLevel)

	rc, err := rabbit.Connect(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit connect failed")
	}
	defer func() { _ = rc.Close() }()

	if err := rabbit.DeclareBase(rc.Ch); err != nil {
		log.Fatal().Err(err).Msg("declare base failed")
	}

	if err := rabbit.DeclareQueueWithDLQ(rc.Ch, rabbit.QueueSpec{
		Name:     "notify.q",
		BindKeys: []string{models.EventOrderCreated, models.EventOrderCancelled},
		DLQ:      "notify.dlq",
	}); err != nil {
		log.Fatal().Err(err).Msg("declare notify topology failed")
	}

	deliveries, err := rabbit.NewConsumer(rc.Ch).Consume("notify.q", 20)
	if err != nil {
		log.Fatal().Err(err).Msg("consume failed")
	}

	w := &notify.Consumer{
		Log:    log,
		Sender: &notify.LogSender{Log: log},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, deliveries)

	log.Info().Msg("notify worker started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutdown")
	cancel()
}
