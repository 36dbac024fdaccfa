package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/prefs"
)

// GetPreferences returns the user's preference record, defaulted on first
// access.
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := h.prefs.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// UpdatePreferences replaces the record wholesale.
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var body domain.UserPreferences
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.prefs.Update(r.Context(), userID, body)
	if errors.Is(err, prefs.ErrInvalidPreferences) {
		respondError(w, http.StatusBadRequest, "invalid preference values")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ResetPreferences restores the defaults.
func (h *Handlers) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.prefs.Reset(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset preferences")
		return
	}
	respondJSON(w, http.StatusOK, domain.DefaultPreferences(userID))
}
