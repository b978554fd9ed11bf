package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestTenantStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO tenants") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "tenant-1" || args[2] != "toko@example.com" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTenantStore(stubDB{})
	if err := store.Create(ctx, execer, "tenant-1", "toko", "toko@example.com", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTenantStoreGetByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewTenantStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE email = $1") || !strings.Contains(query, "password_hash") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*TenantRow) = TenantRow{ID: "tenant-1", Email: "toko@example.com"}
			return nil
		},
	})
	row, err := store.GetByEmail(ctx, "toko@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "tenant-1" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestTenantStoreGetByID(t *testing.T) {
	ctx := context.Background()
	store := NewTenantStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "tenant-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*TenantRow) = TenantRow{ID: "tenant-1", Username: "toko"}
			return nil
		},
	})
	row, err := store.GetByID(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Username != "toko" {
		t.Fatalf("unexpected row: %#v", row)
	}
}
