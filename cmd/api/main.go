package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"menumate/internal/bus"
	"menumate/internal/config"
	"menumate/internal/db"
	"menumate/internal/httpserver"
	"menumate/internal/logger"
	cartrepo "menumate/internal/repository/cart"
	catalogrepo "menumate/internal/repository/catalog"
	identityrepo "menumate/internal/repository/identity"
	orderrepo "menumate/internal/repository/order"
	shoprepo "menumate/internal/repository/shop"
	tablerepo "menumate/internal/repository/table"
	cartsvc "menumate/internal/service/cart"
	ordersvc "menumate/internal/service/order"
	publicsvc "menumate/internal/service/public"
	"menumate/internal/stream"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New("api")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Err("connect to db", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	hub := bus.NewHub()

	// Single-instance deployments publish straight to the in-process hub.
	// With Redis configured, publishes go through Redis and come back via
	// the bridge, so every instance's subscribers see every event.
	var publisher bus.Publisher = hub
	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		bridge := bus.NewRedisBus(client, hub, log)
		publisher = bridge
		go func() {
			if err := bridge.Run(busCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Err("redis bus stopped", err)
			}
		}()
	}

	var feed *stream.Producer
	if len(cfg.KafkaBrokers) > 0 {
		writer := stream.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer writer.Close()
		feed = stream.NewProducer(writer)
	}

	catalogRepo := catalogrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	shopRepo := shoprepo.NewPostgres(dbpool)
	tableRepo := tablerepo.NewPostgres(dbpool)
	identityRepo := identityrepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo, catalogRepo, shopRepo)
	orderService := ordersvc.New(
		orderRepo, cartRepo, catalogRepo, shopRepo, tableRepo,
		publisher, feed, log, cfg.StrictStatusFlow,
	)
	publicService := publicsvc.New(catalogRepo, shopRepo, tableRepo, cfg.PublicBaseURL)

	srv := httpserver.New(cfg.HTTPAddr, dbpool, httpserver.Deps{
		Carts:      cartService,
		Orders:     orderService,
		Public:     publicService,
		Hub:        hub,
		Identities: identityRepo,
		Log:        log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		log.Err("server error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Err("graceful shutdown failed", err)
	} else {
		log.Info("server stopped")
	}
}
