package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/idempotency"
	"github.com/example/herbal-backoffice/internal/query"
	"github.com/go-chi/chi/v5"
)

// Handlers serves the back-office resources
type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	idempotency  idempotency.Store
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, idem idempotency.Store) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		idempotency:  idem,
	}
}

// Dashboard Handlers

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.Dashboard())
}

// Helper functions

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func searchQuery(r *http.Request) string {
	return r.URL.Query().Get("q")
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}
