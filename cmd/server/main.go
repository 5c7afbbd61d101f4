package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonepe/internal/config"
	"phonepe/internal/db"
	"phonepe/internal/handlers"
	"phonepe/internal/ifsc"
	"phonepe/internal/logging"
	"phonepe/internal/metrics"
	"phonepe/internal/otp"
	"phonepe/internal/services"
	"phonepe/internal/store"
	"phonepe/internal/synth"
	"phonepe/internal/websocket"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)
	m := metrics.Registry("phonepe")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	payloads := store.NewPayloadStore(database)
	counters := store.NewCounterStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	ifscClient := ifsc.NewClient(ifsc.Config{
		BaseURL:     cfg.IFSCLookupURL,
		MaxAttempts: cfg.IFSCMaxAttempts,
	}, logger, m)
	resolver := ifsc.NewResolver(ifscClient, cfg.IFSCFallbackCode, logger, m)
	synthesizer := synth.New(resolver, nil, nil)

	service := services.NewStatementService(txRunner, users, accounts, transactions, payloads, counters, synthesizer, hub, logger, m)
	otpCache := otp.NewCache(cfg.OTPTTL)

	handler := handlers.New(cfg, service, otpCache, hub, logger, m)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("ledger API listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
