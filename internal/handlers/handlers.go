package handlers

import (
	"encoding/json"
	"net/http"

	"babadolan/internal/config"
	"babadolan/internal/db"
	"babadolan/internal/money"
	"babadolan/internal/websocket"
)

type Handler struct {
	txRunner   db.TxRunner
	cfg        config.Config
	tenants    TenantStore
	balances   BalanceStore
	cashTx     CashTransactionStore
	incomes    IncomeStore
	expenses   ExpenseStore
	advances   AdvanceStore
	audit      AuditStore
	ledger     LedgerService
	advanceSvc AdvanceService
	hub        *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, tenants TenantStore, balances BalanceStore, cashTx CashTransactionStore, incomes IncomeStore, expenses ExpenseStore, advances AdvanceStore, audit AuditStore, ledger LedgerService, advanceSvc AdvanceService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:   txRunner,
		cfg:        cfg,
		tenants:    tenants,
		balances:   balances,
		cashTx:     cashTx,
		incomes:    incomes,
		expenses:   expenses,
		advances:   advances,
		audit:      audit,
		ledger:     ledger,
		advanceSvc: advanceSvc,
		hub:        hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func valueToMoney(value any) string {
	return money.FormatMinor(money.ValueToInt64(value))
}
