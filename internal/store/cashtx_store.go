package store

import "context"

// CashTransactionStore is the append-side accessor for the transaction log.
// Rows are immutable once written except for the linked-id patch that pairs
// the two legs of a transfer, and the delete path whose balance reversal is
// the caller's job.
type CashTransactionStore struct {
	db DB
}

type CashTransactionRow struct {
	ID                  string  `db:"id"`
	TenantID            string  `db:"tenant_id"`
	Pool                string  `db:"pool"`
	Direction           string  `db:"direction"`
	Amount              int64   `db:"amount"`
	Date                string  `db:"date"`
	Description         string  `db:"description"`
	Proof               string  `db:"proof"`
	IsTransfer          bool    `db:"is_transfer"`
	LinkedTransactionID *string `db:"linked_transaction_id"`
	CreatedAt           any     `db:"created_at"`
}

type CashTransactionInput struct {
	ID                  string
	TenantID            string
	Pool                string
	Direction           string
	Amount              int64
	Date                string
	Description         string
	Proof               string
	IsTransfer          bool
	LinkedTransactionID *string
}

func NewCashTransactionStore(db DB) *CashTransactionStore {
	return &CashTransactionStore{db: db}
}

func (s *CashTransactionStore) Insert(ctx context.Context, tx Execer, input CashTransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cash_transactions (id, tenant_id, pool, direction, amount, date, description, proof, is_transfer, linked_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, input.ID, input.TenantID, input.Pool, input.Direction, input.Amount, input.Date,
		input.Description, input.Proof, input.IsTransfer, input.LinkedTransactionID)
	return err
}

// SetLinked patches one transfer leg to point at its counterpart.
func (s *CashTransactionStore) SetLinked(ctx context.Context, tx Execer, tenantID, id, linkedID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE cash_transactions
		SET linked_transaction_id = $1
		WHERE id = $2 AND tenant_id = $3
	`, linkedID, id, tenantID)
	return err
}

func (s *CashTransactionStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, id string) (CashTransactionRow, error) {
	var row CashTransactionRow
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, pool, direction, amount, date, description, proof, is_transfer, linked_transaction_id
		FROM cash_transactions
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, id, tenantID)
	if err != nil {
		return CashTransactionRow{}, err
	}
	return row, nil
}

func (s *CashTransactionStore) Delete(ctx context.Context, tx Execer, tenantID, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM cash_transactions
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *CashTransactionStore) ListByTenant(ctx context.Context, tenantID, pool string, limit, offset int) ([]CashTransactionRow, error) {
	query := `
		SELECT id, tenant_id, pool, direction, amount, date, description, proof, is_transfer, linked_transaction_id, created_at
		FROM cash_transactions
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	param := 2
	if pool != "" {
		query += ` AND pool = $2`
		args = append(args, pool)
		param = 3
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT $` + itoa(param) + ` OFFSET $` + itoa(param+1)
	args = append(args, limit, offset)
	var rows []CashTransactionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CashTransactionStore) DeleteByTenant(ctx context.Context, tx Execer, tenantID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cash_transactions WHERE tenant_id = $1`, tenantID)
	return err
}
