package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babadolan/internal/config"
	"babadolan/internal/db"
	"babadolan/internal/handlers"
	"babadolan/internal/services"
	"babadolan/internal/store"
	"babadolan/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	tenants := store.NewTenantStore(database)
	balances := store.NewBalanceStore(database)
	cashTx := store.NewCashTransactionStore(database)
	incomes := store.NewIncomeStore(database)
	expenses := store.NewExpenseStore(database)
	advances := store.NewAdvanceStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	ledger := services.NewLedgerService(txRunner, balances, cashTx, incomes, expenses, advances, audit, hub)
	advanceSvc := services.NewAdvanceService(txRunner, advances, balances, cashTx, audit, hub)

	handler := handlers.New(txRunner, cfg, tenants, balances, cashTx, incomes, expenses, advances, audit, ledger, advanceSvc, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("babadolan API listening on %s", server.Addr)
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
