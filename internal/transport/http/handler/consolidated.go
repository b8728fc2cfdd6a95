package handler

import (
	"net/http"

	"github.com/beaware-fyi/beaware-api/internal/application/consolidated"
	"github.com/go-chi/chi/v5"
)

// ConsolidatedHandler serves the consolidated-scam projection, the public
// read model grouping reports by normalized identifier.
type ConsolidatedHandler struct {
	svc consolidated.Service
}

func NewConsolidatedHandler(svc consolidated.Service) *ConsolidatedHandler {
	return &ConsolidatedHandler{svc: svc}
}

func (h *ConsolidatedHandler) List(w http.ResponseWriter, r *http.Request) {
	scams, skipped, err := h.svc.List(r.Context(), r.URL.Query().Get("scam_type"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConsolidatedListEnvelope{Data: scams, Skipped: skipped})
}

func (h *ConsolidatedHandler) Get(w http.ResponseWriter, r *http.Request) {
	scam, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scam)
}
