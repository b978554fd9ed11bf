package store

import "context"

type IncomeStore struct {
	db DB
}

type IncomeRow struct {
	ID            string `db:"id"`
	TenantID      string `db:"tenant_id"`
	Date          string `db:"date"`
	Source        string `db:"source"`
	Description   string `db:"description"`
	Amount        int64  `db:"amount"`
	PaymentMethod string `db:"payment_method"`
	ReceivedFrom  string `db:"received_from"`
	Notes         string `db:"notes"`
	Photos        string `db:"photos"`
	Pool          string `db:"pool"`
	IsTransfer    bool   `db:"is_transfer"`
	CreatedAt     any    `db:"created_at"`
	UpdatedAt     any    `db:"updated_at"`
}

type IncomeInput struct {
	ID            string
	TenantID      string
	Date          string
	Source        string
	Description   string
	Amount        int64
	PaymentMethod string
	ReceivedFrom  string
	Notes         string
	Photos        string
	Pool          string
	IsTransfer    bool
}

func NewIncomeStore(db DB) *IncomeStore {
	return &IncomeStore{db: db}
}

func (s *IncomeStore) Create(ctx context.Context, tx Execer, input IncomeInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO income_entries (id, tenant_id, date, source, description, amount, payment_method, received_from, notes, photos, pool, is_transfer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, input.ID, input.TenantID, input.Date, input.Source, input.Description, input.Amount,
		input.PaymentMethod, input.ReceivedFrom, input.Notes, input.Photos, input.Pool, input.IsTransfer)
	return err
}

func (s *IncomeStore) Update(ctx context.Context, tx Execer, tenantID, id string, input IncomeInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE income_entries
		SET date = $1, source = $2, description = $3, payment_method = $4,
		    received_from = $5, notes = $6, photos = $7, updated_at = NOW()
		WHERE id = $8 AND tenant_id = $9
	`, input.Date, input.Source, input.Description, input.PaymentMethod,
		input.ReceivedFrom, input.Notes, input.Photos, id, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *IncomeStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, id string) (IncomeRow, error) {
	var row IncomeRow
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, date, source, description, amount, payment_method, received_from, notes, photos, pool, is_transfer
		FROM income_entries
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, id, tenantID)
	if err != nil {
		return IncomeRow{}, err
	}
	return row, nil
}

func (s *IncomeStore) Delete(ctx context.Context, tx Execer, tenantID, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM income_entries
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *IncomeStore) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]IncomeRow, error) {
	var rows []IncomeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, date, source, description, amount, payment_method, received_from, notes, photos, pool, is_transfer, created_at, updated_at
		FROM income_entries
		WHERE tenant_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *IncomeStore) DeleteByTenant(ctx context.Context, tx Execer, tenantID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM income_entries WHERE tenant_id = $1`, tenantID)
	return err
}
