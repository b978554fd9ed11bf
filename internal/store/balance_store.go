package store

import "context"

// BalanceStore reads and mutates the two running pool balances per tenant.
// Every mutation happens through a transaction handle; deltas are applied as
// a single SQL increment so concurrent writers cannot lose an update.
type BalanceStore struct {
	db DB
}

type CashBalanceRow struct {
	ID        string `db:"id"`
	TenantID  string `db:"tenant_id"`
	Pool      string `db:"pool"`
	Balance   int64  `db:"balance"`
	UpdatedAt any    `db:"updated_at"`
}

type PoolSummary struct {
	Pool          string `db:"pool"`
	StoredBalance int64  `db:"stored_balance"`
	LogSum        int64  `db:"log_sum"`
	Difference    int64  `db:"difference"`
	UpdatedAt     any    `db:"updated_at"`
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

// Ensure creates the zero-balance row for (tenant, pool) if it does not
// exist yet. First-use initialization; safe to call on every operation.
func (s *BalanceStore) Ensure(ctx context.Context, tx Execer, id, tenantID, pool string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cash_balances (id, tenant_id, pool, balance)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (tenant_id, pool) DO NOTHING
	`, id, tenantID, pool)
	return err
}

func (s *BalanceStore) Get(ctx context.Context, tenantID, pool string) (CashBalanceRow, error) {
	var row CashBalanceRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, tenant_id, pool, balance, updated_at
		FROM cash_balances
		WHERE tenant_id = $1 AND pool = $2
	`, tenantID, pool)
	if err != nil {
		return CashBalanceRow{}, err
	}
	return row, nil
}

func (s *BalanceStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, pool string) (CashBalanceRow, error) {
	var row CashBalanceRow
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, pool, balance
		FROM cash_balances
		WHERE tenant_id = $1 AND pool = $2
		FOR UPDATE
	`, tenantID, pool)
	if err != nil {
		return CashBalanceRow{}, err
	}
	return row, nil
}

// ApplyDelta increments the stored balance in place and returns the new
// value. signedAmount may be negative; balances may legitimately go below
// zero.
func (s *BalanceStore) ApplyDelta(ctx context.Context, tx Getter, tenantID, pool string, signedAmount int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE cash_balances
		SET balance = balance + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND pool = $3
		RETURNING balance
	`, signedAmount, tenantID, pool)
	return balance, err
}

// SetBalance overwrites the stored value. Manual correction path.
func (s *BalanceStore) SetBalance(ctx context.Context, tx Execer, tenantID, pool string, value int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE cash_balances
		SET balance = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND pool = $3
	`, value, tenantID, pool)
	return err
}

// Summaries returns both pools with the stored balance, the sum of the
// transaction log and the difference between the two.
func (s *BalanceStore) Summaries(ctx context.Context, tenantID string) ([]PoolSummary, error) {
	var rows []PoolSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.pool,
		       b.balance AS stored_balance,
		       COALESCE(SUM(CASE WHEN t.direction = 'income' THEN t.amount ELSE -t.amount END), 0) AS log_sum,
		       (b.balance - COALESCE(SUM(CASE WHEN t.direction = 'income' THEN t.amount ELSE -t.amount END), 0)) AS difference,
		       b.updated_at
		FROM cash_balances b
		LEFT JOIN cash_transactions t ON t.tenant_id = b.tenant_id AND t.pool = b.pool
		WHERE b.tenant_id = $1
		GROUP BY b.pool, b.balance, b.updated_at
		ORDER BY b.pool
	`, tenantID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BalanceStore) DeleteByTenant(ctx context.Context, tx Execer, tenantID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cash_balances WHERE tenant_id = $1`, tenantID)
	return err
}
