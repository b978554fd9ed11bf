package handlers

import (
	"encoding/json"
	"net/http"

	"babadolan/internal/middleware"
	"babadolan/internal/models"
	"babadolan/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	summaries, err := h.balances.Summaries(r.Context(), tenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balances")
		return
	}
	response := make([]map[string]any, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, map[string]any{
			"pool":       summary.Pool,
			"balance":    valueToMoney(summary.StoredBalance),
			"log_sum":    valueToMoney(summary.LogSum),
			"difference": valueToMoney(summary.Difference),
			"updated_at": summary.UpdatedAt,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

type setBalanceRequest struct {
	Balance string `json:"balance"`
}

func (h *Handler) SetBalance(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pool := chi.URLParam(r, "pool")
	if !models.ValidPool(pool) {
		respondError(w, http.StatusBadRequest, "invalid_pool")
		return
	}
	var req setBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	value, err := parseSignedMinor(req.Balance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if err := h.ledger.SetBalance(r.Context(), tenantID, pool, value); err != nil {
		respondError(w, http.StatusInternalServerError, "set_balance_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"pool":    pool,
		"balance": valueToMoney(value),
	})
}

func (h *Handler) ListCashTransactions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pool := r.URL.Query().Get("pool")
	if pool != "" && !models.ValidPool(pool) {
		respondError(w, http.StatusBadRequest, "invalid_pool")
		return
	}
	limit, offset := parseListParams(r)
	rows, err := h.cashTx.ListByTenant(r.Context(), tenantID, pool, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		item := map[string]any{
			"id":          row.ID,
			"pool":        row.Pool,
			"direction":   row.Direction,
			"amount":      valueToMoney(row.Amount),
			"date":        row.Date,
			"description": row.Description,
			"is_transfer": row.IsTransfer,
			"created_at":  row.CreatedAt,
		}
		if row.LinkedTransactionID != nil {
			item["linked_transaction_id"] = *row.LinkedTransactionID
		}
		if row.Proof != "" {
			item["proof"] = row.Proof
		}
		response = append(response, item)
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) DeleteCashTransaction(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.ledger.DeleteCashTransaction(r.Context(), tenantID, id); err != nil {
		if err == services.ErrTransactionNotFound {
			respondError(w, http.StatusNotFound, "transaction_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type transferRequest struct {
	FromPool    string `json:"from_pool"`
	ToPool      string `json:"to_pool"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.RecordTransfer(r.Context(), services.TransferRequest{
		TenantID:    tenantID,
		FromPool:    req.FromPool,
		ToPool:      req.ToPool,
		AmountMinor: amountMinor,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidPool:
			respondError(w, http.StatusBadRequest, "invalid_pool")
		case services.ErrSamePoolTransfer:
			respondError(w, http.StatusBadRequest, "same_pool_transfer")
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrInsufficientFunds:
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "transfer_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"debit_transaction_id":  result.DebitTransactionID,
		"credit_transaction_id": result.CreditTransactionID,
		"from_balance":          valueToMoney(result.FromBalance),
		"to_balance":            valueToMoney(result.ToBalance),
	})
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !req.Confirm {
		respondError(w, http.StatusBadRequest, "confirmation_required")
		return
	}
	if err := h.ledger.ResetTenant(r.Context(), tenantID); err != nil {
		respondError(w, http.StatusInternalServerError, "reset_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := parseListParams(r)
	logs, err := h.audit.ListByActor(r.Context(), tenantID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
