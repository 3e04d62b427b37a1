// Package server exposes the enrichment pipeline over HTTP for the
// browser extension.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/internal/pipeline"
	"github.com/connoction/outreach-cli/internal/records"
)

// Runner is the pipeline surface the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, req model.EnrichmentRequest) (*model.EnrichmentResult, error)
}

// New builds the HTTP handler: GET /healthz and POST /draft.
func New(p Runner, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", handleHealthz)
	r.Post("/draft", handleDraft(p))

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleDraft(p Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.EnrichmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := p.Run(r.Context(), req)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// statusFor maps pipeline failures onto HTTP status codes: extraction
// problems are the client's payload (422), record-store write failures
// are a bad upstream (502), anything else is internal.
func statusFor(err error) int {
	switch {
	case eris.Is(err, pipeline.ErrExtractionTransient),
		eris.Is(err, pipeline.ErrExtractionMalformed):
		return http.StatusUnprocessableEntity
	case eris.Is(err, records.ErrWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
