package handlers

import (
	"context"

	"babadolan/internal/services"
	"babadolan/internal/store"
)

type TenantStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (store.TenantRow, error)
	GetByID(ctx context.Context, tenantID string) (store.TenantRow, error)
}

type BalanceStore interface {
	Summaries(ctx context.Context, tenantID string) ([]store.PoolSummary, error)
}

type CashTransactionStore interface {
	ListByTenant(ctx context.Context, tenantID, pool string, limit, offset int) ([]store.CashTransactionRow, error)
}

type IncomeStore interface {
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]store.IncomeRow, error)
}

type ExpenseStore interface {
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]store.ExpenseRow, error)
}

type AdvanceStore interface {
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]store.AdvanceRow, error)
}

type AuditStore interface {
	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]map[string]any, error)
}

type LedgerService interface {
	RecordIncome(ctx context.Context, req services.IncomeRequest) (string, error)
	RecordExpense(ctx context.Context, req services.ExpenseRequest) (string, error)
	RecordTransfer(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
	UpdateIncome(ctx context.Context, tenantID, id string, upd services.IncomeUpdate) error
	UpdateExpense(ctx context.Context, tenantID, id string, upd services.ExpenseUpdate) error
	DeleteIncome(ctx context.Context, tenantID, id string) error
	DeleteExpense(ctx context.Context, tenantID, id string) error
	DeleteCashTransaction(ctx context.Context, tenantID, id string) error
	SetBalance(ctx context.Context, tenantID, pool string, value int64) error
	ResetTenant(ctx context.Context, tenantID string) error
}

type AdvanceService interface {
	RecordAdvance(ctx context.Context, req services.AdvanceRequest) (string, error)
	SettleAdvance(ctx context.Context, tenantID, id string, actualExpense int64) (string, error)
}
