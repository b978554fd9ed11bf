package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"babadolan/internal/db"
	"babadolan/internal/models"
	"babadolan/internal/money"
	"babadolan/internal/store"
	"babadolan/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidPool         = errors.New("invalid cash pool")
	ErrSamePoolTransfer    = errors.New("cannot transfer to same pool")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// LedgerService is the only component that mutates a business entry, its
// transaction-log row and the pool balance together. Every operation runs in
// one serializable transaction and broadcasts the new balance after commit.
type LedgerService struct {
	txRunner BalanceTxRunner
	balances BalanceStore
	cashTx   CashTransactionStore
	incomes  IncomeStore
	expenses ExpenseStore
	advances AdvanceStore
	audit    AuditStore
	hub      CashHub
}

type BalanceTxRunner = db.TxRunner

type BalanceStore interface {
	Ensure(ctx context.Context, tx store.Execer, id, tenantID, pool string) error
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, pool string) (store.CashBalanceRow, error)
	ApplyDelta(ctx context.Context, tx store.Getter, tenantID, pool string, signedAmount int64) (int64, error)
	SetBalance(ctx context.Context, tx store.Execer, tenantID, pool string, value int64) error
	DeleteByTenant(ctx context.Context, tx store.Execer, tenantID string) error
}

type CashTransactionStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.CashTransactionInput) error
	SetLinked(ctx context.Context, tx store.Execer, tenantID, id, linkedID string) error
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, id string) (store.CashTransactionRow, error)
	Delete(ctx context.Context, tx store.Execer, tenantID, id string) (int64, error)
	DeleteByTenant(ctx context.Context, tx store.Execer, tenantID string) error
}

type IncomeStore interface {
	Create(ctx context.Context, tx store.Execer, input store.IncomeInput) error
	Update(ctx context.Context, tx store.Execer, tenantID, id string, input store.IncomeInput) (int64, error)
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, id string) (store.IncomeRow, error)
	Delete(ctx context.Context, tx store.Execer, tenantID, id string) (int64, error)
	DeleteByTenant(ctx context.Context, tx store.Execer, tenantID string) error
}

type ExpenseStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ExpenseInput) error
	Update(ctx context.Context, tx store.Execer, tenantID, id string, input store.ExpenseInput) (int64, error)
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, id string) (store.ExpenseRow, error)
	Delete(ctx context.Context, tx store.Execer, tenantID, id string) (int64, error)
	DeleteByTenant(ctx context.Context, tx store.Execer, tenantID string) error
}

type AdvanceStore interface {
	DeleteByTenant(ctx context.Context, tx store.Execer, tenantID string) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	DeleteByActor(ctx context.Context, tx store.Execer, actorID string) error
}

type CashHub interface {
	BroadcastCash(tenantID string, event websocket.CashEvent)
}

func NewLedgerService(txRunner BalanceTxRunner, balances BalanceStore, cashTx CashTransactionStore, incomes IncomeStore, expenses ExpenseStore, advances AdvanceStore, audit AuditStore, hub CashHub) *LedgerService {
	return &LedgerService{
		txRunner: txRunner,
		balances: balances,
		cashTx:   cashTx,
		incomes:  incomes,
		expenses: expenses,
		advances: advances,
		audit:    audit,
		hub:      hub,
	}
}

type IncomeRequest struct {
	TenantID      string
	Date          string
	Source        string
	Description   string
	AmountMinor   int64
	PaymentMethod string
	ReceivedFrom  string
	Notes         string
	Photos        string
	Pool          string
}

func (s *LedgerService) RecordIncome(ctx context.Context, req IncomeRequest) (string, error) {
	if req.AmountMinor <= 0 {
		return "", ErrInvalidAmount
	}
	if !models.ValidPool(req.Pool) {
		return "", ErrInvalidPool
	}
	entryID := uuid.NewString()
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.incomes.Create(ctx, tx, store.IncomeInput{
			ID:            entryID,
			TenantID:      req.TenantID,
			Date:          req.Date,
			Source:        req.Source,
			Description:   req.Description,
			Amount:        req.AmountMinor,
			PaymentMethod: req.PaymentMethod,
			ReceivedFrom:  req.ReceivedFrom,
			Notes:         req.Notes,
			Photos:        req.Photos,
			Pool:          req.Pool,
		}); err != nil {
			return err
		}
		if err := s.cashTx.Insert(ctx, tx, store.CashTransactionInput{
			ID:          uuid.NewString(),
			TenantID:    req.TenantID,
			Pool:        req.Pool,
			Direction:   models.DirectionIncome,
			Amount:      req.AmountMinor,
			Date:        req.Date,
			Description: logDescription(req.Description, req.Source),
		}); err != nil {
			return err
		}
		after, err := s.applyDelta(ctx, tx, req.TenantID, req.Pool, req.AmountMinor)
		if err != nil {
			return err
		}
		balanceAfter = after
		return s.logAudit(ctx, tx, req.TenantID, "record_income", "income_entry", entryID, map[string]any{
			"pool":   req.Pool,
			"amount": req.AmountMinor,
		})
	})
	if err != nil {
		return "", err
	}
	s.broadcastBalance(req.TenantID, req.Pool, balanceAfter)
	return entryID, nil
}

type IncomeUpdate struct {
	Date          string
	Source        string
	Description   string
	PaymentMethod string
	ReceivedFrom  string
	Notes         string
	Photos        string
}

// UpdateIncome edits the descriptive fields of an income entry. Amount and
// pool are fixed at creation, so neither the balance nor the transaction log
// moves here.
func (s *LedgerService) UpdateIncome(ctx context.Context, tenantID, id string, upd IncomeUpdate) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.incomes.Update(ctx, tx, tenantID, id, store.IncomeInput{
			Date:          upd.Date,
			Source:        upd.Source,
			Description:   upd.Description,
			PaymentMethod: upd.PaymentMethod,
			ReceivedFrom:  upd.ReceivedFrom,
			Notes:         upd.Notes,
			Photos:        upd.Photos,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrEntryNotFound
		}
		return s.logAudit(ctx, tx, tenantID, "update_income", "income_entry", id, map[string]any{
			"date":   upd.Date,
			"source": upd.Source,
		})
	})
}

type ExpenseRequest struct {
	TenantID      string
	Date          string
	Category      string
	Description   string
	AmountMinor   int64
	PaymentMethod string
	PaidTo        string
	Notes         string
	Photos        string
	Pool          string
}

func (s *LedgerService) RecordExpense(ctx context.Context, req ExpenseRequest) (string, error) {
	if req.AmountMinor <= 0 {
		return "", ErrInvalidAmount
	}
	if !models.ValidPool(req.Pool) {
		return "", ErrInvalidPool
	}
	entryID := uuid.NewString()
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.expenses.Create(ctx, tx, store.ExpenseInput{
			ID:            entryID,
			TenantID:      req.TenantID,
			Date:          req.Date,
			Category:      req.Category,
			Description:   req.Description,
			Amount:        req.AmountMinor,
			PaymentMethod: req.PaymentMethod,
			PaidTo:        req.PaidTo,
			Notes:         req.Notes,
			Photos:        req.Photos,
			Pool:          req.Pool,
		}); err != nil {
			return err
		}
		if err := s.cashTx.Insert(ctx, tx, store.CashTransactionInput{
			ID:          uuid.NewString(),
			TenantID:    req.TenantID,
			Pool:        req.Pool,
			Direction:   models.DirectionExpense,
			Amount:      req.AmountMinor,
			Date:        req.Date,
			Description: logDescription(req.Description, req.Category),
		}); err != nil {
			return err
		}
		after, err := s.applyDelta(ctx, tx, req.TenantID, req.Pool, -req.AmountMinor)
		if err != nil {
			return err
		}
		balanceAfter = after
		return s.logAudit(ctx, tx, req.TenantID, "record_expense", "expense_entry", entryID, map[string]any{
			"pool":   req.Pool,
			"amount": req.AmountMinor,
		})
	})
	if err != nil {
		return "", err
	}
	s.broadcastBalance(req.TenantID, req.Pool, balanceAfter)
	return entryID, nil
}

type ExpenseUpdate struct {
	Date          string
	Category      string
	Description   string
	PaymentMethod string
	PaidTo        string
	Notes         string
	Photos        string
}

func (s *LedgerService) UpdateExpense(ctx context.Context, tenantID, id string, upd ExpenseUpdate) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.expenses.Update(ctx, tx, tenantID, id, store.ExpenseInput{
			Date:          upd.Date,
			Category:      upd.Category,
			Description:   upd.Description,
			PaymentMethod: upd.PaymentMethod,
			PaidTo:        upd.PaidTo,
			Notes:         upd.Notes,
			Photos:        upd.Photos,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrEntryNotFound
		}
		return s.logAudit(ctx, tx, tenantID, "update_expense", "expense_entry", id, map[string]any{
			"date":     upd.Date,
			"category": upd.Category,
		})
	})
}

type TransferRequest struct {
	TenantID    string
	FromPool    string
	ToPool      string
	AmountMinor int64
	Date        string
	Description string
}

type TransferResult struct {
	DebitTransactionID  string
	CreditTransactionID string
	FromBalance         int64
	ToBalance           int64
}

// RecordTransfer moves cash between the two pools. It writes the linked
// transaction pair, the mirrored expense and income entries the reports
// expect, and both balance updates in a single transaction.
func (s *LedgerService) RecordTransfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	if req.AmountMinor <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if !models.ValidPool(req.FromPool) || !models.ValidPool(req.ToPool) {
		return TransferResult{}, ErrInvalidPool
	}
	if req.FromPool == req.ToPool {
		return TransferResult{}, ErrSamePoolTransfer
	}
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	var result TransferResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.ensurePools(ctx, tx, req.TenantID, req.FromPool, req.ToPool); err != nil {
			return err
		}
		source, err := s.balances.GetForUpdate(ctx, tx, req.TenantID, req.FromPool)
		if err != nil {
			return err
		}
		if source.Balance < req.AmountMinor {
			return ErrInsufficientFunds
		}
		if err := s.cashTx.Insert(ctx, tx, store.CashTransactionInput{
			ID:          debitID,
			TenantID:    req.TenantID,
			Pool:        req.FromPool,
			Direction:   models.DirectionExpense,
			Amount:      req.AmountMinor,
			Date:        req.Date,
			Description: req.Description + " [Transfer ke " + poolLabel(req.ToPool) + "]",
			IsTransfer:  true,
		}); err != nil {
			return err
		}
		if err := s.cashTx.Insert(ctx, tx, store.CashTransactionInput{
			ID:                  creditID,
			TenantID:            req.TenantID,
			Pool:                req.ToPool,
			Direction:           models.DirectionIncome,
			Amount:              req.AmountMinor,
			Date:                req.Date,
			Description:         req.Description + " [Transfer dari " + poolLabel(req.FromPool) + "]",
			IsTransfer:          true,
			LinkedTransactionID: &debitID,
		}); err != nil {
			return err
		}
		if err := s.cashTx.SetLinked(ctx, tx, req.TenantID, debitID, creditID); err != nil {
			return err
		}
		// Mirrored business entries, record keeping only: the balance moves
		// through the transaction log above, never through these rows.
		if err := s.expenses.Create(ctx, tx, store.ExpenseInput{
			ID:            uuid.NewString(),
			TenantID:      req.TenantID,
			Date:          req.Date,
			Category:      "Transfer Kas",
			Description:   req.Description + " (Pengeluaran)",
			Amount:        req.AmountMinor,
			PaymentMethod: "Tunai",
			PaidTo:        "Transfer Internal - " + poolLabel(req.ToPool),
			Pool:          req.FromPool,
			IsTransfer:    true,
		}); err != nil {
			return err
		}
		if err := s.incomes.Create(ctx, tx, store.IncomeInput{
			ID:            uuid.NewString(),
			TenantID:      req.TenantID,
			Date:          req.Date,
			Source:        "Transfer Kas",
			Description:   req.Description + " (Pemasukan)",
			Amount:        req.AmountMinor,
			PaymentMethod: "Tunai",
			ReceivedFrom:  "Transfer Internal - " + poolLabel(req.FromPool),
			Pool:          req.ToPool,
			IsTransfer:    true,
		}); err != nil {
			return err
		}
		fromAfter, err := s.balances.ApplyDelta(ctx, tx, req.TenantID, req.FromPool, -req.AmountMinor)
		if err != nil {
			return err
		}
		toAfter, err := s.balances.ApplyDelta(ctx, tx, req.TenantID, req.ToPool, req.AmountMinor)
		if err != nil {
			return err
		}
		result = TransferResult{
			DebitTransactionID:  debitID,
			CreditTransactionID: creditID,
			FromBalance:         fromAfter,
			ToBalance:           toAfter,
		}
		return s.logAudit(ctx, tx, req.TenantID, "transfer", "cash_transaction", debitID, map[string]any{
			"from":   req.FromPool,
			"to":     req.ToPool,
			"amount": req.AmountMinor,
		})
	})
	if err != nil {
		return TransferResult{}, err
	}
	s.broadcastBalance(req.TenantID, req.FromPool, result.FromBalance)
	s.broadcastBalance(req.TenantID, req.ToPool, result.ToBalance)
	return result, nil
}

// DeleteIncome removes the entry and adds its amount back out of the pool.
// Create followed by delete leaves the balance where it started.
func (s *LedgerService) DeleteIncome(ctx context.Context, tenantID, id string) error {
	var pool string
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.incomes.GetForUpdate(ctx, tx, tenantID, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEntryNotFound
			}
			return err
		}
		if _, err := s.incomes.Delete(ctx, tx, tenantID, id); err != nil {
			return err
		}
		pool = row.Pool
		after, err := s.applyDelta(ctx, tx, tenantID, row.Pool, -row.Amount)
		if err != nil {
			return err
		}
		balanceAfter = after
		return s.logAudit(ctx, tx, tenantID, "delete_income", "income_entry", id, map[string]any{
			"pool":   row.Pool,
			"amount": row.Amount,
		})
	})
	if err != nil {
		return err
	}
	s.broadcastBalance(tenantID, pool, balanceAfter)
	return nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, tenantID, id string) error {
	var pool string
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.expenses.GetForUpdate(ctx, tx, tenantID, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEntryNotFound
			}
			return err
		}
		if _, err := s.expenses.Delete(ctx, tx, tenantID, id); err != nil {
			return err
		}
		pool = row.Pool
		after, err := s.applyDelta(ctx, tx, tenantID, row.Pool, row.Amount)
		if err != nil {
			return err
		}
		balanceAfter = after
		return s.logAudit(ctx, tx, tenantID, "delete_expense", "expense_entry", id, map[string]any{
			"pool":   row.Pool,
			"amount": row.Amount,
		})
	})
	if err != nil {
		return err
	}
	s.broadcastBalance(tenantID, pool, balanceAfter)
	return nil
}

// DeleteCashTransaction removes one log row and reverses its balance effect.
// A transfer leg's counterpart is left in place, matching how the cash book
// has always behaved.
func (s *LedgerService) DeleteCashTransaction(ctx context.Context, tenantID, id string) error {
	var pool string
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.cashTx.GetForUpdate(ctx, tx, tenantID, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if _, err := s.cashTx.Delete(ctx, tx, tenantID, id); err != nil {
			return err
		}
		delta := row.Amount
		if row.Direction == models.DirectionIncome {
			delta = -row.Amount
		}
		pool = row.Pool
		after, err := s.applyDelta(ctx, tx, tenantID, row.Pool, delta)
		if err != nil {
			return err
		}
		balanceAfter = after
		return s.logAudit(ctx, tx, tenantID, "delete_cash_transaction", "cash_transaction", id, map[string]any{
			"pool":      row.Pool,
			"direction": row.Direction,
			"amount":    row.Amount,
		})
	})
	if err != nil {
		return err
	}
	s.broadcastBalance(tenantID, pool, balanceAfter)
	return nil
}

// SetBalance overwrites a pool balance. Manual correction: the transaction
// log is left alone, so the reconcile difference will show the adjustment.
func (s *LedgerService) SetBalance(ctx context.Context, tenantID, pool string, value int64) error {
	if !models.ValidPool(pool) {
		return ErrInvalidPool
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.balances.Ensure(ctx, tx, uuid.NewString(), tenantID, pool); err != nil {
			return err
		}
		if err := s.balances.SetBalance(ctx, tx, tenantID, pool, value); err != nil {
			return err
		}
		return s.logAudit(ctx, tx, tenantID, "set_balance", "cash_balance", pool, map[string]any{
			"pool":    pool,
			"balance": value,
		})
	})
	if err != nil {
		return err
	}
	s.broadcastBalance(tenantID, pool, value)
	return nil
}

// ResetTenant wipes every ledger row for the tenant in one transaction and
// leaves a single audit record of the reset itself.
func (s *LedgerService) ResetTenant(ctx context.Context, tenantID string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.incomes.DeleteByTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		if err := s.expenses.DeleteByTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		if err := s.advances.DeleteByTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		if err := s.cashTx.DeleteByTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		if err := s.balances.DeleteByTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		if err := s.audit.DeleteByActor(ctx, tx, tenantID); err != nil {
			return err
		}
		return s.logAudit(ctx, tx, tenantID, "reset", "tenant", tenantID, nil)
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastCash(tenantID, websocket.CashEvent{Kind: "reset"})
	return nil
}

// applyDelta lazily creates the pool row, then increments it in place.
func (s *LedgerService) applyDelta(ctx context.Context, tx *sqlx.Tx, tenantID, pool string, signedAmount int64) (int64, error) {
	if err := s.balances.Ensure(ctx, tx, uuid.NewString(), tenantID, pool); err != nil {
		return 0, err
	}
	return s.balances.ApplyDelta(ctx, tx, tenantID, pool, signedAmount)
}

func (s *LedgerService) ensurePools(ctx context.Context, tx *sqlx.Tx, tenantID string, pools ...string) error {
	for _, pool := range pools {
		if err := s.balances.Ensure(ctx, tx, uuid.NewString(), tenantID, pool); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerService) logAudit(ctx context.Context, tx *sqlx.Tx, tenantID, action, entityType, entityID string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	payload, _ := json.Marshal(data)
	return s.audit.Log(ctx, tx, tenantID, action, entityType, entityID, string(payload))
}

func (s *LedgerService) broadcastBalance(tenantID, pool string, balance int64) {
	s.hub.BroadcastCash(tenantID, balanceEvent(pool, balance))
}

func balanceEvent(pool string, balance int64) websocket.CashEvent {
	return websocket.CashEvent{
		Kind:    "balance",
		Pool:    pool,
		Balance: money.FormatMinor(balance),
	}
}

func logDescription(description, fallback string) string {
	if description != "" {
		return description
	}
	return fallback
}

func poolLabel(pool string) string {
	if pool == models.PoolBig {
		return "Kas Besar"
	}
	return "Kas Kecil"
}
