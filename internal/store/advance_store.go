package store

import "context"

// AdvanceStore tracks cash handed to an employee out of a pool and its later
// settlement against the actual spend.
type AdvanceStore struct {
	db DB
}

type AdvanceRow struct {
	ID            string `db:"id"`
	TenantID      string `db:"tenant_id"`
	Date          string `db:"date"`
	Pool          string `db:"pool"`
	EmployeeName  string `db:"employee_name"`
	Amount        int64  `db:"amount"`
	Description   string `db:"description"`
	Status        string `db:"status"`
	ActualExpense *int64 `db:"actual_expense"`
	SettledAt     any    `db:"settled_at"`
	CreatedAt     any    `db:"created_at"`
}

type AdvanceInput struct {
	ID           string
	TenantID     string
	Date         string
	Pool         string
	EmployeeName string
	Amount       int64
	Description  string
}

func NewAdvanceStore(db DB) *AdvanceStore {
	return &AdvanceStore{db: db}
}

func (s *AdvanceStore) Create(ctx context.Context, tx Execer, input AdvanceInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO employee_advances (id, tenant_id, date, pool, employee_name, amount, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
	`, input.ID, input.TenantID, input.Date, input.Pool, input.EmployeeName, input.Amount, input.Description)
	return err
}

func (s *AdvanceStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, id string) (AdvanceRow, error) {
	var row AdvanceRow
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, date, pool, employee_name, amount, description, status, actual_expense
		FROM employee_advances
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, id, tenantID)
	if err != nil {
		return AdvanceRow{}, err
	}
	return row, nil
}

// Settle records the actual spend and final status. The WHERE clause only
// matches pending advances; zero rows affected means the advance was already
// settled.
func (s *AdvanceStore) Settle(ctx context.Context, tx Execer, tenantID, id string, actualExpense int64, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE employee_advances
		SET actual_expense = $1, status = $2, settled_at = NOW()
		WHERE id = $3 AND tenant_id = $4 AND status = 'pending'
	`, actualExpense, status, id, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AdvanceStore) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]AdvanceRow, error) {
	var rows []AdvanceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, date, pool, employee_name, amount, description, status, actual_expense, settled_at, created_at
		FROM employee_advances
		WHERE tenant_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AdvanceStore) DeleteByTenant(ctx context.Context, tx Execer, tenantID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM employee_advances WHERE tenant_id = $1`, tenantID)
	return err
}
