package store

import "context"

type ExpenseStore struct {
	db DB
}

type ExpenseRow struct {
	ID            string `db:"id"`
	TenantID      string `db:"tenant_id"`
	Date          string `db:"date"`
	Category      string `db:"category"`
	Description   string `db:"description"`
	Amount        int64  `db:"amount"`
	PaymentMethod string `db:"payment_method"`
	PaidTo        string `db:"paid_to"`
	Notes         string `db:"notes"`
	Photos        string `db:"photos"`
	Pool          string `db:"pool"`
	IsTransfer    bool   `db:"is_transfer"`
	CreatedAt     any    `db:"created_at"`
	UpdatedAt     any    `db:"updated_at"`
}

type ExpenseInput struct {
	ID            string
	TenantID      string
	Date          string
	Category      string
	Description   string
	Amount        int64
	PaymentMethod string
	PaidTo        string
	Notes         string
	Photos        string
	Pool          string
	IsTransfer    bool
}

func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) Create(ctx context.Context, tx Execer, input ExpenseInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO expense_entries (id, tenant_id, date, category, description, amount, payment_method, paid_to, notes, photos, pool, is_transfer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, input.ID, input.TenantID, input.Date, input.Category, input.Description, input.Amount,
		input.PaymentMethod, input.PaidTo, input.Notes, input.Photos, input.Pool, input.IsTransfer)
	return err
}

func (s *ExpenseStore) Update(ctx context.Context, tx Execer, tenantID, id string, input ExpenseInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE expense_entries
		SET date = $1, category = $2, description = $3, payment_method = $4,
		    paid_to = $5, notes = $6, photos = $7, updated_at = NOW()
		WHERE id = $8 AND tenant_id = $9
	`, input.Date, input.Category, input.Description, input.PaymentMethod,
		input.PaidTo, input.Notes, input.Photos, id, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ExpenseStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, id string) (ExpenseRow, error) {
	var row ExpenseRow
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, date, category, description, amount, payment_method, paid_to, notes, photos, pool, is_transfer
		FROM expense_entries
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, id, tenantID)
	if err != nil {
		return ExpenseRow{}, err
	}
	return row, nil
}

func (s *ExpenseStore) Delete(ctx context.Context, tx Execer, tenantID, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM expense_entries
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ExpenseStore) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]ExpenseRow, error) {
	var rows []ExpenseRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, date, category, description, amount, payment_method, paid_to, notes, photos, pool, is_transfer, created_at, updated_at
		FROM expense_entries
		WHERE tenant_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ExpenseStore) DeleteByTenant(ctx context.Context, tx Execer, tenantID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM expense_entries WHERE tenant_id = $1`, tenantID)
	return err
}
