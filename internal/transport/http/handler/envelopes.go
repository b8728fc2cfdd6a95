package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/beaware-fyi/beaware-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Errors use the same
// shape with only message set.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// AuthEnvelope wraps login/refresh responses.
type AuthEnvelope struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
	User         *domain.User    `json:"user,omitempty"`
}

// CheckUsernameEnvelope answers username availability probes.
type CheckUsernameEnvelope struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// PageEnvelope wraps cursor-paginated list responses.
type PageEnvelope struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ConsolidatedListEnvelope wraps the consolidated-scam list view. Skipped
// counts reports excluded from grouping because their identifier was
// missing.
type ConsolidatedListEnvelope struct {
	Data    []domain.ConsolidatedScam `json:"data"`
	Skipped int                       `json:"skipped,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// httpError maps domain sentinel errors onto HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	writeError(w, httpStatus(err), err.Error())
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAllocationExhausted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
