package handlers

import (
	"encoding/json"
	"net/http"

	"babadolan/internal/middleware"
	"babadolan/internal/models"
	"babadolan/internal/services"

	"github.com/go-chi/chi/v5"
)

type expenseRequest struct {
	Date          string `json:"date"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	PaidTo        string `json:"paid_to"`
	Notes         string `json:"notes"`
	Photos        string `json:"photos"`
	Pool          string `json:"pool"`
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if req.Pool == "" {
		req.Pool = models.PoolBig
	}
	entryID, err := h.ledger.RecordExpense(r.Context(), services.ExpenseRequest{
		TenantID:      tenantID,
		Date:          req.Date,
		Category:      req.Category,
		Description:   req.Description,
		AmountMinor:   amountMinor,
		PaymentMethod: req.PaymentMethod,
		PaidTo:        req.PaidTo,
		Notes:         req.Notes,
		Photos:        req.Photos,
		Pool:          req.Pool,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrInvalidPool:
			respondError(w, http.StatusBadRequest, "invalid_pool")
		default:
			respondError(w, http.StatusInternalServerError, "expense_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": entryID})
}

type expenseUpdateRequest struct {
	Date          string `json:"date"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	PaymentMethod string `json:"payment_method"`
	PaidTo        string `json:"paid_to"`
	Notes         string `json:"notes"`
	Photos        string `json:"photos"`
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	var req expenseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.ledger.UpdateExpense(r.Context(), tenantID, id, services.ExpenseUpdate{
		Date:          req.Date,
		Category:      req.Category,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		PaidTo:        req.PaidTo,
		Notes:         req.Notes,
		Photos:        req.Photos,
	})
	if err != nil {
		if err == services.ErrEntryNotFound {
			respondError(w, http.StatusNotFound, "entry_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := parseListParams(r)
	rows, err := h.expenses.ListByTenant(r.Context(), tenantID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load expenses")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		response = append(response, map[string]any{
			"id":             row.ID,
			"date":           row.Date,
			"category":       row.Category,
			"description":    row.Description,
			"amount":         valueToMoney(row.Amount),
			"payment_method": row.PaymentMethod,
			"paid_to":        row.PaidTo,
			"notes":          row.Notes,
			"pool":           row.Pool,
			"is_transfer":    row.IsTransfer,
			"created_at":     row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.ledger.DeleteExpense(r.Context(), tenantID, id); err != nil {
		if err == services.ErrEntryNotFound {
			respondError(w, http.StatusNotFound, "entry_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
