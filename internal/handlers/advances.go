package handlers

import (
	"encoding/json"
	"net/http"

	"babadolan/internal/middleware"
	"babadolan/internal/services"

	"github.com/go-chi/chi/v5"
)

type advanceRequest struct {
	Date         string `json:"date"`
	Pool         string `json:"pool"`
	EmployeeName string `json:"employee_name"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
}

func (h *Handler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.EmployeeName == "" {
		respondError(w, http.StatusBadRequest, "employee_name is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	advanceID, err := h.advanceSvc.RecordAdvance(r.Context(), services.AdvanceRequest{
		TenantID:     tenantID,
		Date:         req.Date,
		Pool:         req.Pool,
		EmployeeName: req.EmployeeName,
		AmountMinor:  amountMinor,
		Description:  req.Description,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrInvalidPool:
			respondError(w, http.StatusBadRequest, "invalid_pool")
		default:
			respondError(w, http.StatusInternalServerError, "advance_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": advanceID})
}

func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := parseListParams(r)
	rows, err := h.advances.ListByTenant(r.Context(), tenantID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load advances")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		item := map[string]any{
			"id":            row.ID,
			"date":          row.Date,
			"pool":          row.Pool,
			"employee_name": row.EmployeeName,
			"amount":        valueToMoney(row.Amount),
			"description":   row.Description,
			"status":        row.Status,
			"created_at":    row.CreatedAt,
		}
		if row.ActualExpense != nil {
			item["actual_expense"] = valueToMoney(*row.ActualExpense)
		}
		if row.SettledAt != nil {
			item["settled_at"] = row.SettledAt
		}
		response = append(response, item)
	}
	respondJSON(w, http.StatusOK, response)
}

type settleRequest struct {
	ActualExpense string `json:"actual_expense"`
}

func (h *Handler) SettleAdvance(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	actualExpense, err := parseSignedMinor(req.ActualExpense)
	if err != nil || actualExpense < 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	status, err := h.advanceSvc.SettleAdvance(r.Context(), tenantID, id, actualExpense)
	if err != nil {
		switch err {
		case services.ErrAdvanceNotFound:
			respondError(w, http.StatusNotFound, "advance_not_found")
		case services.ErrAdvanceSettled:
			respondError(w, http.StatusConflict, "advance_already_settled")
		case services.ErrInvalidExpense:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			respondError(w, http.StatusInternalServerError, "settle_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}
