package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"babadolan/internal/models"
	"babadolan/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAdvanceNotFound = errors.New("advance not found")
	ErrAdvanceSettled  = errors.New("advance already settled")
	ErrInvalidExpense  = errors.New("invalid actual expense")
)

// AdvanceService hands cash from a pool to an employee and settles it later
// against the actual spend. Both sides move through the transaction log so
// the pool balance stays reconcilable.
type AdvanceService struct {
	txRunner BalanceTxRunner
	advances AdvanceWorkflowStore
	balances BalanceStore
	cashTx   CashTransactionStore
	audit    AuditStore
	hub      CashHub
}

type AdvanceWorkflowStore interface {
	Create(ctx context.Context, tx store.Execer, input store.AdvanceInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, id string) (store.AdvanceRow, error)
	Settle(ctx context.Context, tx store.Execer, tenantID, id string, actualExpense int64, status string) (int64, error)
}

func NewAdvanceService(txRunner BalanceTxRunner, advances AdvanceWorkflowStore, balances BalanceStore, cashTx CashTransactionStore, audit AuditStore, hub CashHub) *AdvanceService {
	return &AdvanceService{
		txRunner: txRunner,
		advances: advances,
		balances: balances,
		cashTx:   cashTx,
		audit:    audit,
		hub:      hub,
	}
}

type AdvanceRequest struct {
	TenantID     string
	Date         string
	Pool         string
	EmployeeName string
	AmountMinor  int64
	Description  string
}

func (s *AdvanceService) RecordAdvance(ctx context.Context, req AdvanceRequest) (string, error) {
	if req.AmountMinor <= 0 {
		return "", ErrInvalidAmount
	}
	if !models.ValidPool(req.Pool) {
		return "", ErrInvalidPool
	}
	if req.EmployeeName == "" {
		return "", errors.New("employee name is required")
	}
	advanceID := uuid.NewString()
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.advances.Create(ctx, tx, store.AdvanceInput{
			ID:           advanceID,
			TenantID:     req.TenantID,
			Date:         req.Date,
			Pool:         req.Pool,
			EmployeeName: req.EmployeeName,
			Amount:       req.AmountMinor,
			Description:  req.Description,
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
			Description: "Kasbon " + req.EmployeeName,
		}); err != nil {
			return err
		}
		if err := s.balances.Ensure(ctx, tx, uuid.NewString(), req.TenantID, req.Pool); err != nil {
			return err
		}
		after, err := s.balances.ApplyDelta(ctx, tx, req.TenantID, req.Pool, -req.AmountMinor)
		if err != nil {
			return err
		}
		balanceAfter = after
		data, _ := json.Marshal(map[string]any{
			"pool":     req.Pool,
			"amount":   req.AmountMinor,
			"employee": req.EmployeeName,
		})
		return s.audit.Log(ctx, tx, req.TenantID, "record_advance", "employee_advance", advanceID, string(data))
	})
	if err != nil {
		return "", err
	}
	s.broadcast(req.TenantID, req.Pool, balanceAfter)
	return advanceID, nil
}

// SettleAdvance compares the actual spend against the advanced amount. Spend
// below the advance returns the difference to the pool; spend above it
// deducts the extra. The stored status records which way it fell.
func (s *AdvanceService) SettleAdvance(ctx context.Context, tenantID, id string, actualExpense int64) (string, error) {
	if actualExpense < 0 {
		return "", ErrInvalidExpense
	}
	var status string
	var pool string
	var balanceAfter int64
	var broadcastNeeded bool
	// The adjustment posts on the day of settlement, not on the day the
	// advance was handed out.
	settledOn := time.Now().Format("2006-01-02")
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.advances.GetForUpdate(ctx, tx, tenantID, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAdvanceNotFound
			}
			return err
		}
		if row.Status != models.AdvancePending {
			return ErrAdvanceSettled
		}
		diff := row.Amount - actualExpense
		switch {
		case diff == 0:
			status = models.AdvanceSettled
		case diff > 0:
			status = models.AdvanceNeedReturn
		default:
			status = models.AdvanceNeedPayment
		}
		affected, err := s.advances.Settle(ctx, tx, tenantID, id, actualExpense, status)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAdvanceSettled
		}
		pool = row.Pool
		if diff != 0 {
			direction := models.DirectionIncome
			description := "Pengembalian kasbon " + row.EmployeeName
			if diff < 0 {
				direction = models.DirectionExpense
				description = "Kekurangan kasbon " + row.EmployeeName
			}
			amount := diff
			if amount < 0 {
				amount = -amount
			}
			if err := s.cashTx.Insert(ctx, tx, store.CashTransactionInput{
				ID:          uuid.NewString(),
				TenantID:    tenantID,
				Pool:        row.Pool,
				Direction:   direction,
				Amount:      amount,
				Date:        settledOn,
				Description: description,
			}); err != nil {
				return err
			}
			after, err := s.balances.ApplyDelta(ctx, tx, tenantID, row.Pool, diff)
			if err != nil {
				return err
			}
			balanceAfter = after
			broadcastNeeded = true
		}
		data, _ := json.Marshal(map[string]any{
			"pool":           row.Pool,
			"advanced":       row.Amount,
			"actual_expense": actualExpense,
			"status":         status,
		})
		return s.audit.Log(ctx, tx, tenantID, "settle_advance", "employee_advance", id, string(data))
	})
	if err != nil {
		return "", err
	}
	if broadcastNeeded {
		s.broadcast(tenantID, pool, balanceAfter)
	}
	return status, nil
}

func (s *AdvanceService) broadcast(tenantID, pool string, balance int64) {
	s.hub.BroadcastCash(tenantID, balanceEvent(pool, balance))
}
