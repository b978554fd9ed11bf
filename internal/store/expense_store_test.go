package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestExpenseStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO expense_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 12 {
				t.Fatalf("expected 12 args, got %d", len(args))
			}
			if args[0] != "exp-1" || args[3] != "Operasional" || args[5] != int64(30000) || args[10] != "small" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewExpenseStore(stubDB{})
	err := store.Create(ctx, execer, ExpenseInput{
		ID:       "exp-1",
		TenantID: "tenant-1",
		Date:     "2024-05-01",
		Category: "Operasional",
		Amount:   30000,
		Pool:     "small",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpenseStoreUpdate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE expense_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if strings.Contains(query, "amount") {
				t.Fatalf("update must not touch amount: %s", query)
			}
			if len(args) != 9 || args[7] != "exp-1" || args[8] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewExpenseStore(stubDB{})
	rows, err := store.Update(ctx, execer, "tenant-1", "exp-1", ExpenseInput{Date: "2024-05-02", Category: "Operasional"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}
}

func TestExpenseStoreGetForUpdate(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM expense_entries") || !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*ExpenseRow) = ExpenseRow{ID: "exp-1", Amount: 30000, Pool: "small"}
			return nil
		},
	}
	store := NewExpenseStore(stubDB{})
	row, err := store.GetForUpdate(ctx, getter, "tenant-1", "exp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Pool != "small" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestExpenseStoreDelete(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM expense_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "exp-1" || args[1] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewExpenseStore(stubDB{})
	rows, err := store.Delete(ctx, execer, "tenant-1", "exp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}
}

func TestExpenseStoreListByTenant(t *testing.T) {
	ctx := context.Background()
	store := NewExpenseStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM expense_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[0] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]ExpenseRow) = []ExpenseRow{{ID: "exp-1"}}
			return nil
		},
	})
	rows, err := store.ListByTenant(ctx, "tenant-1", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
