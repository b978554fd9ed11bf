package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestCashTransactionStoreInsert(t *testing.T) {
	ctx := context.Background()
	linked := "tx-2"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO cash_transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 10 {
				t.Fatalf("expected 10 args, got %d", len(args))
			}
			if args[0] != "tx-1" || args[1] != "tenant-1" || args[2] != "big" || args[3] != "expense" {
				t.Fatalf("unexpected args: %#v", args)
			}
			if args[4] != int64(150000) || args[8] != true {
				t.Fatalf("unexpected args: %#v", args)
			}
			ptr, ok := args[9].(*string)
			if !ok || ptr == nil || *ptr != "tx-2" {
				t.Fatalf("unexpected linked id arg: %#v", args[9])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewCashTransactionStore(stubDB{})
	err := store.Insert(ctx, execer, CashTransactionInput{
		ID:                  "tx-1",
		TenantID:            "tenant-1",
		Pool:                "big",
		Direction:           "expense",
		Amount:              150000,
		Date:                "2024-05-01",
		Description:         "Transfer Kas",
		IsTransfer:          true,
		LinkedTransactionID: &linked,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCashTransactionStoreSetLinked(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET linked_transaction_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[0] != "tx-2" || args[1] != "tx-1" || args[2] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewCashTransactionStore(stubDB{})
	if err := store.SetLinked(ctx, execer, "tenant-1", "tx-1", "tx-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCashTransactionStoreGetForUpdate(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "tx-1" || args[1] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*CashTransactionRow) = CashTransactionRow{ID: "tx-1", Direction: "income", Amount: 5000}
			return nil
		},
	}
	store := NewCashTransactionStore(stubDB{})
	row, err := store.GetForUpdate(ctx, getter, "tenant-1", "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "tx-1" || row.Amount != 5000 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestCashTransactionStoreDelete(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM cash_transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "tx-1" || args[1] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewCashTransactionStore(stubDB{})
	rows, err := store.Delete(ctx, execer, "tenant-1", "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}
}

func TestCashTransactionStoreListByTenant(t *testing.T) {
	ctx := context.Background()
	store := NewCashTransactionStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "LIMIT $2 OFFSET $3") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[0] != "tenant-1" || args[1] != 50 || args[2] != 0 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]CashTransactionRow) = []CashTransactionRow{{ID: "tx-1"}}
			return nil
		},
	})
	rows, err := store.ListByTenant(ctx, "tenant-1", "", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "tx-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestCashTransactionStoreListByTenantWithPool(t *testing.T) {
	ctx := context.Background()
	store := NewCashTransactionStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "AND pool = $2") || !strings.Contains(query, "LIMIT $3 OFFSET $4") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[1] != "small" || args[2] != 20 || args[3] != 40 {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.ListByTenant(ctx, "tenant-1", "small", 20, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCashTransactionStoreDeleteByTenant(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM cash_transactions WHERE tenant_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{}, nil
		},
	}
	store := NewCashTransactionStore(stubDB{})
	if err := store.DeleteByTenant(ctx, execer, "tenant-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
