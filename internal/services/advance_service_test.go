package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"babadolan/internal/store"
)

type recordingAdvanceWorkflowStore struct {
	created        []store.AdvanceInput
	settled        []string
	getForUpdateFn func(ctx context.Context, tx store.Getter, tenantID, id string) (store.AdvanceRow, error)
	settleRows     int64
}

func (r *recordingAdvanceWorkflowStore) Create(_ context.Context, _ store.Execer, input store.AdvanceInput) error {
	r.created = append(r.created, input)
	return nil
}

func (r *recordingAdvanceWorkflowStore) GetForUpdate(ctx context.Context, tx store.Getter, tenantID, id string) (store.AdvanceRow, error) {
	if r.getForUpdateFn == nil {
		return store.AdvanceRow{}, sql.ErrNoRows
	}
	return r.getForUpdateFn(ctx, tx, tenantID, id)
}

func (r *recordingAdvanceWorkflowStore) Settle(_ context.Context, _ store.Execer, _, id string, _ int64, status string) (int64, error) {
	r.settled = append(r.settled, status)
	return r.settleRows, nil
}

type advanceFixture struct {
	service  *AdvanceService
	advances *recordingAdvanceWorkflowStore
	balances *fakeBalances
	cashTx   *recordingCashTxStore
	audit    *recordingAuditStore
	hub      *stubHub
}

func newAdvanceFixture() *advanceFixture {
	f := &advanceFixture{
		advances: &recordingAdvanceWorkflowStore{settleRows: 1},
		balances: newFakeBalances(),
		cashTx:   &recordingCashTxStore{},
		audit:    &recordingAuditStore{},
		hub:      &stubHub{},
	}
	f.service = NewAdvanceService(fakeTxRunner{}, f.advances, f.balances, f.cashTx, f.audit, f.hub)
	return f
}

func pendingAdvance(pool string, amount int64) func(context.Context, store.Getter, string, string) (store.AdvanceRow, error) {
	return func(_ context.Context, _ store.Getter, _, id string) (store.AdvanceRow, error) {
		return store.AdvanceRow{
			ID: id, Pool: pool, Amount: amount, EmployeeName: "Budi",
			Date: "2024-05-01", Status: "pending",
		}, nil
	}
}

func TestRecordAdvance(t *testing.T) {
	f := newAdvanceFixture()
	f.balances.balances["tenant-1/small"] = 200000
	id, err := f.service.RecordAdvance(context.Background(), AdvanceRequest{
		TenantID: "tenant-1", Date: "2024-05-01", Pool: "small", EmployeeName: "Budi", AmountMinor: 100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected advance id")
	}
	if got := f.balances.balances["tenant-1/small"]; got != 100000 {
		t.Fatalf("expected balance 100000, got %d", got)
	}
	if len(f.cashTx.inserts) != 1 || f.cashTx.inserts[0].Direction != "expense" {
		t.Fatalf("unexpected log rows: %#v", f.cashTx.inserts)
	}
	if !strings.HasPrefix(f.cashTx.inserts[0].Description, "Kasbon ") {
		t.Fatalf("unexpected log description: %q", f.cashTx.inserts[0].Description)
	}
	if len(f.hub.events) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(f.hub.events))
	}
}

func TestRecordAdvanceRequiresEmployee(t *testing.T) {
	f := newAdvanceFixture()
	_, err := f.service.RecordAdvance(context.Background(), AdvanceRequest{
		TenantID: "tenant-1", Date: "2024-05-01", Pool: "small", AmountMinor: 100000,
	})
	if err == nil {
		t.Fatal("expected error for missing employee name")
	}
}

func TestSettleAdvanceExactSpend(t *testing.T) {
	f := newAdvanceFixture()
	f.balances.balances["tenant-1/small"] = 100000
	f.advances.getForUpdateFn = pendingAdvance("small", 100000)
	status, err := f.service.SettleAdvance(context.Background(), "tenant-1", "adv-1", 100000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "settled" {
		t.Fatalf("expected status settled, got %q", status)
	}
	if got := f.balances.balances["tenant-1/small"]; got != 100000 {
		t.Fatalf("balance must not move on an exact settlement, got %d", got)
	}
	if len(f.cashTx.inserts) != 0 {
		t.Fatalf("no log row expected: %#v", f.cashTx.inserts)
	}
	if len(f.hub.events) != 0 {
		t.Fatalf("no broadcast expected: %#v", f.hub.events)
	}
}

func TestSettleAdvanceUnderSpend(t *testing.T) {
	f := newAdvanceFixture()
	f.balances.balances["tenant-1/small"] = 100000
	f.advances.getForUpdateFn = pendingAdvance("small", 100000)
	status, err := f.service.SettleAdvance(context.Background(), "tenant-1", "adv-1", 80000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "need_return" {
		t.Fatalf("expected status need_return, got %q", status)
	}
	if got := f.balances.balances["tenant-1/small"]; got != 120000 {
		t.Fatalf("expected balance 120000, got %d", got)
	}
	if len(f.cashTx.inserts) != 1 || f.cashTx.inserts[0].Direction != "income" || f.cashTx.inserts[0].Amount != 20000 {
		t.Fatalf("unexpected log rows: %#v", f.cashTx.inserts)
	}
	if got := f.cashTx.inserts[0].Date; got != time.Now().Format("2006-01-02") {
		t.Fatalf("return must post on the settlement date, got %q", got)
	}
	if len(f.hub.events) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(f.hub.events))
	}
}

func TestSettleAdvanceOverSpend(t *testing.T) {
	f := newAdvanceFixture()
	f.balances.balances["tenant-1/small"] = 100000
	f.advances.getForUpdateFn = pendingAdvance("small", 100000)
	status, err := f.service.SettleAdvance(context.Background(), "tenant-1", "adv-1", 120000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "need_payment" {
		t.Fatalf("expected status need_payment, got %q", status)
	}
	if got := f.balances.balances["tenant-1/small"]; got != 80000 {
		t.Fatalf("expected balance 80000, got %d", got)
	}
	if len(f.cashTx.inserts) != 1 || f.cashTx.inserts[0].Direction != "expense" || f.cashTx.inserts[0].Amount != 20000 {
		t.Fatalf("unexpected log rows: %#v", f.cashTx.inserts)
	}
	if got := f.cashTx.inserts[0].Date; got != time.Now().Format("2006-01-02") {
		t.Fatalf("shortfall must post on the settlement date, got %q", got)
	}
}

func TestSettleAdvanceAlreadySettled(t *testing.T) {
	f := newAdvanceFixture()
	f.advances.getForUpdateFn = func(_ context.Context, _ store.Getter, _, id string) (store.AdvanceRow, error) {
		return store.AdvanceRow{ID: id, Pool: "small", Amount: 100000, Status: "settled"}, nil
	}
	if _, err := f.service.SettleAdvance(context.Background(), "tenant-1", "adv-1", 100000); err != ErrAdvanceSettled {
		t.Fatalf("expected ErrAdvanceSettled, got %v", err)
	}
}

func TestSettleAdvanceNotFound(t *testing.T) {
	f := newAdvanceFixture()
	if _, err := f.service.SettleAdvance(context.Background(), "tenant-1", "missing", 100000); err != ErrAdvanceNotFound {
		t.Fatalf("expected ErrAdvanceNotFound, got %v", err)
	}
}

func TestSettleAdvanceNegativeExpense(t *testing.T) {
	f := newAdvanceFixture()
	if _, err := f.service.SettleAdvance(context.Background(), "tenant-1", "adv-1", -1); err != ErrInvalidExpense {
		t.Fatalf("expected ErrInvalidExpense, got %v", err)
	}
}
