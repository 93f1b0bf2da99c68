package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/payledger/internal/api/httpx"
	"github.com/baharkarakas/payledger/internal/config"
	"github.com/baharkarakas/payledger/internal/metrics"
	"github.com/baharkarakas/payledger/internal/middleware"
	"github.com/baharkarakas/payledger/internal/models"
	"github.com/baharkarakas/payledger/internal/services"
)

// NewRouter exposes the read-only report surface: account states and
// journal entries. There is no mutation over HTTP; records only enter
// through the ingestion pipeline.
func NewRouter(cfg config.Config, ledger *services.LedgerService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/accounts", func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, ledger.Snapshot())
		})

		r.Get("/accounts/{clientID}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseUint(chi.URLParam(r, "clientID"), 10, 16)
			if err != nil {
				httpx.BadRequest(w, "client id must be a 16-bit unsigned integer")
				return
			}
			st, ok := ledger.Account(uint16(id))
			if !ok {
				httpx.NotFound(w, "unknown client")
				return
			}
			httpx.WriteJSON(w, http.StatusOK, st)
		})

		r.Get("/transactions/{txID}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseUint(chi.URLParam(r, "txID"), 10, 32)
			if err != nil {
				httpx.BadRequest(w, "tx id must be a 32-bit unsigned integer")
				return
			}
			e, err := ledger.Transaction(uint32(id))
			if err != nil {
				if errors.Is(err, models.ErrUnknownTransaction) {
					httpx.NotFound(w, "unknown transaction")
					return
				}
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, e)
		})
	})

	return r
}
