package models

import "time"

// Pool names the two cash registers every tenant keeps.
const (
	PoolBig   = "big"
	PoolSmall = "small"
)

const (
	DirectionIncome  = "income"
	DirectionExpense = "expense"
)

// Advance settlement states, in the order the workflow moves through them.
const (
	AdvancePending     = "pending"
	AdvanceReported    = "reported"
	AdvanceSettled     = "settled"
	AdvanceNeedReturn  = "need_return"
	AdvanceNeedPayment = "need_payment"
)

func ValidPool(pool string) bool {
	return pool == PoolBig || pool == PoolSmall
}

type Tenant struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CashBalance struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Pool      string    `db:"pool" json:"pool"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CashTransaction struct {
	ID                  string    `db:"id" json:"id"`
	TenantID            string    `db:"tenant_id" json:"tenant_id"`
	Pool                string    `db:"pool" json:"pool"`
	Direction           string    `db:"direction" json:"direction"`
	Amount              int64     `db:"amount" json:"amount"`
	Date                string    `db:"date" json:"date"`
	Description         string    `db:"description" json:"description"`
	Proof               string    `db:"proof" json:"proof,omitempty"`
	IsTransfer          bool      `db:"is_transfer" json:"is_transfer"`
	LinkedTransactionID *string   `db:"linked_transaction_id" json:"linked_transaction_id,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

type IncomeEntry struct {
	ID            string    `db:"id" json:"id"`
	TenantID      string    `db:"tenant_id" json:"tenant_id"`
	Date          string    `db:"date" json:"date"`
	Source        string    `db:"source" json:"source"`
	Description   string    `db:"description" json:"description"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	ReceivedFrom  string    `db:"received_from" json:"received_from,omitempty"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	Photos        string    `db:"photos" json:"photos,omitempty"`
	Pool          string    `db:"pool" json:"pool"`
	IsTransfer    bool      `db:"is_transfer" json:"is_transfer"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type ExpenseEntry struct {
	ID            string    `db:"id" json:"id"`
	TenantID      string    `db:"tenant_id" json:"tenant_id"`
	Date          string    `db:"date" json:"date"`
	Category      string    `db:"category" json:"category"`
	Description   string    `db:"description" json:"description"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	PaidTo        string    `db:"paid_to" json:"paid_to,omitempty"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	Photos        string    `db:"photos" json:"photos,omitempty"`
	Pool          string    `db:"pool" json:"pool"`
	IsTransfer    bool      `db:"is_transfer" json:"is_transfer"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type EmployeeAdvance struct {
	ID            string     `db:"id" json:"id"`
	TenantID      string     `db:"tenant_id" json:"tenant_id"`
	Date          string     `db:"date" json:"date"`
	Pool          string     `db:"pool" json:"pool"`
	EmployeeName  string     `db:"employee_name" json:"employee_name"`
	Amount        int64      `db:"amount" json:"amount"`
	Description   string     `db:"description" json:"description"`
	Status        string     `db:"status" json:"status"`
	ActualExpense *int64     `db:"actual_expense" json:"actual_expense,omitempty"`
	SettledAt     *time.Time `db:"settled_at" json:"settled_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
