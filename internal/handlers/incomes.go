package handlers

import (
	"encoding/json"
	"net/http"

	"babadolan/internal/middleware"
	"babadolan/internal/models"
	"babadolan/internal/services"

	"github.com/go-chi/chi/v5"
)

type incomeRequest struct {
	Date          string `json:"date"`
	Source        string `json:"source"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	ReceivedFrom  string `json:"received_from"`
	Notes         string `json:"notes"`
	Photos        string `json:"photos"`
	Pool          string `json:"pool"`
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req incomeRequest
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
	entryID, err := h.ledger.RecordIncome(r.Context(), services.IncomeRequest{
		TenantID:      tenantID,
		Date:          req.Date,
		Source:        req.Source,
		Description:   req.Description,
		AmountMinor:   amountMinor,
		PaymentMethod: req.PaymentMethod,
		ReceivedFrom:  req.ReceivedFrom,
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
			respondError(w, http.StatusInternalServerError, "income_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": entryID})
}

type incomeUpdateRequest struct {
	Date          string `json:"date"`
	Source        string `json:"source"`
	Description   string `json:"description"`
	PaymentMethod string `json:"payment_method"`
	ReceivedFrom  string `json:"received_from"`
	Notes         string `json:"notes"`
	Photos        string `json:"photos"`
}

func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	var req incomeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.ledger.UpdateIncome(r.Context(), tenantID, id, services.IncomeUpdate{
		Date:          req.Date,
		Source:        req.Source,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		ReceivedFrom:  req.ReceivedFrom,
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

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := parseListParams(r)
	rows, err := h.incomes.ListByTenant(r.Context(), tenantID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load incomes")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		response = append(response, map[string]any{
			"id":             row.ID,
			"date":           row.Date,
			"source":         row.Source,
			"description":    row.Description,
			"amount":         valueToMoney(row.Amount),
			"payment_method": row.PaymentMethod,
			"received_from":  row.ReceivedFrom,
			"notes":          row.Notes,
			"pool":           row.Pool,
			"is_transfer":    row.IsTransfer,
			"created_at":     row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.ledger.DeleteIncome(r.Context(), tenantID, id); err != nil {
		if err == services.ErrEntryNotFound {
			respondError(w, http.StatusNotFound, "entry_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
