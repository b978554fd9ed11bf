package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"babadolan/internal/auth"
	"babadolan/internal/config"
	"babadolan/internal/middleware"
	"babadolan/internal/services"
	"babadolan/internal/store"
	"babadolan/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubTenantStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (store.TenantRow, error)
	getByIDFn    func(ctx context.Context, tenantID string) (store.TenantRow, error)
}

func (s stubTenantStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubTenantStore) GetByEmail(ctx context.Context, email string) (store.TenantRow, error) {
	if s.getByEmailFn == nil {
		return store.TenantRow{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubTenantStore) GetByID(ctx context.Context, tenantID string) (store.TenantRow, error) {
	if s.getByIDFn == nil {
		return store.TenantRow{}, nil
	}
	return s.getByIDFn(ctx, tenantID)
}

type stubBalanceStore struct {
	summariesFn func(ctx context.Context, tenantID string) ([]store.PoolSummary, error)
}

func (s stubBalanceStore) Summaries(ctx context.Context, tenantID string) ([]store.PoolSummary, error) {
	if s.summariesFn == nil {
		return nil, nil
	}
	return s.summariesFn(ctx, tenantID)
}

type stubCashTxStore struct {
	listFn func(ctx context.Context, tenantID, pool string, limit, offset int) ([]store.CashTransactionRow, error)
}

func (s stubCashTxStore) ListByTenant(ctx context.Context, tenantID, pool string, limit, offset int) ([]store.CashTransactionRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, tenantID, pool, limit, offset)
}

type stubIncomeStore struct {
	listFn func(ctx context.Context, tenantID string, limit, offset int) ([]store.IncomeRow, error)
}

func (s stubIncomeStore) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]store.IncomeRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, tenantID, limit, offset)
}

type stubExpenseStore struct {
	listFn func(ctx context.Context, tenantID string, limit, offset int) ([]store.ExpenseRow, error)
}

func (s stubExpenseStore) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]store.ExpenseRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, tenantID, limit, offset)
}

type stubAdvanceStore struct {
	listFn func(ctx context.Context, tenantID string, limit, offset int) ([]store.AdvanceRow, error)
}

func (s stubAdvanceStore) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]store.AdvanceRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, tenantID, limit, offset)
}

type stubAuditStore struct {
	listFn func(ctx context.Context, actorID string, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, actorID, limit, offset)
}

type stubLedgerService struct {
	recordIncomeFn   func(ctx context.Context, req services.IncomeRequest) (string, error)
	recordExpenseFn  func(ctx context.Context, req services.ExpenseRequest) (string, error)
	recordTransferFn func(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
	updateIncomeFn   func(ctx context.Context, tenantID, id string, upd services.IncomeUpdate) error
	updateExpenseFn  func(ctx context.Context, tenantID, id string, upd services.ExpenseUpdate) error
	deleteIncomeFn   func(ctx context.Context, tenantID, id string) error
	deleteExpenseFn  func(ctx context.Context, tenantID, id string) error
	deleteCashTxFn   func(ctx context.Context, tenantID, id string) error
	setBalanceFn     func(ctx context.Context, tenantID, pool string, value int64) error
	resetTenantFn    func(ctx context.Context, tenantID string) error
}

func (s stubLedgerService) RecordIncome(ctx context.Context, req services.IncomeRequest) (string, error) {
	if s.recordIncomeFn == nil {
		return "entry-1", nil
	}
	return s.recordIncomeFn(ctx, req)
}

func (s stubLedgerService) RecordExpense(ctx context.Context, req services.ExpenseRequest) (string, error) {
	if s.recordExpenseFn == nil {
		return "entry-1", nil
	}
	return s.recordExpenseFn(ctx, req)
}

func (s stubLedgerService) RecordTransfer(ctx context.Context, req services.TransferRequest) (services.TransferResult, error) {
	if s.recordTransferFn == nil {
		return services.TransferResult{}, nil
	}
	return s.recordTransferFn(ctx, req)
}

func (s stubLedgerService) UpdateIncome(ctx context.Context, tenantID, id string, upd services.IncomeUpdate) error {
	if s.updateIncomeFn == nil {
		return nil
	}
	return s.updateIncomeFn(ctx, tenantID, id, upd)
}

func (s stubLedgerService) UpdateExpense(ctx context.Context, tenantID, id string, upd services.ExpenseUpdate) error {
	if s.updateExpenseFn == nil {
		return nil
	}
	return s.updateExpenseFn(ctx, tenantID, id, upd)
}

func (s stubLedgerService) DeleteIncome(ctx context.Context, tenantID, id string) error {
	if s.deleteIncomeFn == nil {
		return nil
	}
	return s.deleteIncomeFn(ctx, tenantID, id)
}

func (s stubLedgerService) DeleteExpense(ctx context.Context, tenantID, id string) error {
	if s.deleteExpenseFn == nil {
		return nil
	}
	return s.deleteExpenseFn(ctx, tenantID, id)
}

func (s stubLedgerService) DeleteCashTransaction(ctx context.Context, tenantID, id string) error {
	if s.deleteCashTxFn == nil {
		return nil
	}
	return s.deleteCashTxFn(ctx, tenantID, id)
}

func (s stubLedgerService) SetBalance(ctx context.Context, tenantID, pool string, value int64) error {
	if s.setBalanceFn == nil {
		return nil
	}
	return s.setBalanceFn(ctx, tenantID, pool, value)
}

func (s stubLedgerService) ResetTenant(ctx context.Context, tenantID string) error {
	if s.resetTenantFn == nil {
		return nil
	}
	return s.resetTenantFn(ctx, tenantID)
}

type stubAdvanceService struct {
	recordFn func(ctx context.Context, req services.AdvanceRequest) (string, error)
	settleFn func(ctx context.Context, tenantID, id string, actualExpense int64) (string, error)
}

func (s stubAdvanceService) RecordAdvance(ctx context.Context, req services.AdvanceRequest) (string, error) {
	if s.recordFn == nil {
		return "adv-1", nil
	}
	return s.recordFn(ctx, req)
}

func (s stubAdvanceService) SettleAdvance(ctx context.Context, tenantID, id string, actualExpense int64) (string, error) {
	if s.settleFn == nil {
		return "settled", nil
	}
	return s.settleFn(ctx, tenantID, id, actualExpense)
}

func newTestHandler(txRunner fakeTxRunner, tenants TenantStore, balances BalanceStore, cashTx CashTransactionStore, incomes IncomeStore, expenses ExpenseStore, advances AdvanceStore, audit AuditStore, ledger LedgerService, advanceSvc AdvanceService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(txRunner, cfg, tenants, balances, cashTx, incomes, expenses, advances, audit, ledger, advanceSvc, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body []byte, tenantID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", tenantID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
