package handlers

import (
	"net/http"

	"babadolan/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Route("/cash", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/balances", h.ListBalances)
		r.Put("/balances/{pool}", h.SetBalance)
		r.Get("/transactions", h.ListCashTransactions)
		r.Delete("/transactions/{id}", h.DeleteCashTransaction)
		r.Post("/transfers", h.Transfer)
	})
	router.Route("/incomes", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/", h.CreateIncome)
		r.Get("/", h.ListIncomes)
		r.Put("/{id}", h.UpdateIncome)
		r.Delete("/{id}", h.DeleteIncome)
	})
	router.Route("/expenses", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/", h.CreateExpense)
		r.Get("/", h.ListExpenses)
		r.Put("/{id}", h.UpdateExpense)
		r.Delete("/{id}", h.DeleteExpense)
	})
	router.Route("/advances", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/", h.CreateAdvance)
		r.Get("/", h.ListAdvances)
		r.Post("/{id}/settle", h.SettleAdvance)
	})
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/reset", h.Reset)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/audit", h.ListAuditLogs)
	router.Get("/ws/cash", h.WSCash)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
