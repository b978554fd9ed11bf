package store

import "context"

type TenantStore struct {
	db DB
}

type TenantRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    any    `db:"created_at"`
}

func NewTenantStore(db DB) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tenants (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`, id, username, email, passwordHash)
	return err
}

func (s *TenantStore) GetByEmail(ctx context.Context, email string) (TenantRow, error) {
	var row TenantRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, created_at
		FROM tenants
		WHERE email = $1
	`, email)
	if err != nil {
		return TenantRow{}, err
	}
	return row, nil
}

func (s *TenantStore) GetByID(ctx context.Context, tenantID string) (TenantRow, error) {
	var row TenantRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, created_at
		FROM tenants
		WHERE id = $1
	`, tenantID)
	if err != nil {
		return TenantRow{}, err
	}
	return row, nil
}
