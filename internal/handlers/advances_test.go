package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"babadolan/internal/services"
	"babadolan/internal/store"
)

func TestCreateAdvance(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubTenantStore{}, stubBalanceStore{}, stubCashTxStore{}, stubIncomeStore{}, stubExpenseStore{}, stubAdvanceStore{}, stubAuditStore{}, stubLedgerService{}, stubAdvanceService{
		recordFn: func(_ context.Context, req services.AdvanceRequest) (string, error) {
			if req.EmployeeName != "Budi" || req.AmountMinor != 100000 || req.Pool != "small" {
				t.Fatalf("unexpected request: %#v", req)
			}
			return "adv-1", nil
		},
	})

	body := []byte(`{"date":"2024-05-01","pool":"small","employee_name":"Budi","amount":"1000.00"}`)
	req := authedRequest(t, http.MethodPost, "/advances", body, "tenant-1")
	rr := serveAuthed(handler.CreateAdvance, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateAdvanceMissingEmployee(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubTenantStore{}, stubBalanceStore{}, stubCashTxStore{}, stubIncomeStore{}, stubExpenseStore{}, stubAdvanceStore{}, stubAuditStore{}, stubLedgerService{}, stubAdvanceService{
		recordFn: func(context.Context, services.AdvanceRequest) (string, error) {
			t.Fatal("service must not be called without an employee name")
			return "", nil
		},
	})

	body := []byte(`{"date":"2024-05-01","pool":"small","amount":"1000.00"}`)
	req := authedRequest(t, http.MethodPost, "/advances", body, "tenant-1")
	rr := serveAuthed(handler.CreateAdvance, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListAdvances(t *testing.T) {
	actual := int64(80000)
	handler := newTestHandler(fakeTxRunner{}, stubTenantStore{}, stubBalanceStore{}, stubCashTxStore{}, stubIncomeStore{}, stubExpenseStore{}, stubAdvanceStore{
		listFn: func(_ context.Context, tenantID string, _, _ int) ([]store.AdvanceRow, error) {
			return []store.AdvanceRow{
				{ID: "adv-1", EmployeeName: "Budi", Amount: 100000, Status: "need_return", ActualExpense: &actual},
			}, nil
		},
	}, stubAuditStore{}, stubLedgerService{}, stubAdvanceService{})

	req := authedRequest(t, http.MethodGet, "/advances", nil, "tenant-1")
	rr := serveAuthed(handler.ListAdvances, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["status"] != "need_return" || payload[0]["actual_expense"] != "800.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestSettleAdvanceHandler(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubTenantStore{}, stubBalanceStore{}, stubCashTxStore{}, stubIncomeStore{}, stubExpenseStore{}, stubAdvanceStore{}, stubAuditStore{}, stubLedgerService{}, stubAdvanceService{
		settleFn: func(_ context.Context, _, id string, actualExpense int64) (string, error) {
			if id != "adv-1" || actualExpense != 80000 {
				t.Fatalf("unexpected call: id=%s actual=%d", id, actualExpense)
			}
			return "need_return", nil
		},
	})

	body := []byte(`{"actual_expense":"800.00"}`)
	req := authedRequest(t, http.MethodPost, "/advances/adv-1/settle", body, "tenant-1")
	req = withURLParam(req, "id", "adv-1")
	rr := serveAuthed(handler.SettleAdvance, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["status"] != "need_return" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestSettleAdvanceAlreadySettledResponse(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubTenantStore{}, stubBalanceStore{}, stubCashTxStore{}, stubIncomeStore{}, stubExpenseStore{}, stubAdvanceStore{}, stubAuditStore{}, stubLedgerService{}, stubAdvanceService{
		settleFn: func(context.Context, string, string, int64) (string, error) {
			return "", services.ErrAdvanceSettled
		},
	})

	body := []byte(`{"actual_expense":"800.00"}`)
	req := authedRequest(t, http.MethodPost, "/advances/adv-1/settle", body, "tenant-1")
	req = withURLParam(req, "id", "adv-1")
	rr := serveAuthed(handler.SettleAdvance, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestSettleAdvanceNotFoundResponse(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubTenantStore{}, stubBalanceStore{}, stubCashTxStore{}, stubIncomeStore{}, stubExpenseStore{}, stubAdvanceStore{}, stubAuditStore{}, stubLedgerService{}, stubAdvanceService{
		settleFn: func(context.Context, string, string, int64) (string, error) {
			return "", services.ErrAdvanceNotFound
		},
	})

	body := []byte(`{"actual_expense":"800.00"}`)
	req := authedRequest(t, http.MethodPost, "/advances/missing/settle", body, "tenant-1")
	req = withURLParam(req, "id", "missing")
	rr := serveAuthed(handler.SettleAdvance, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
