package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumina/glow-platform/internal/advisor"
)

const (
	chatRateLimit  = 20
	chatRateWindow = time.Minute
)

type chatRequest struct {
	Message string            `json:"message"`
	History []advisor.Message `json:"history,omitempty"`
}

// Chat answers one beauty-advisor turn. The model call never surfaces an
// error to the client; failures come back as the on-brand fallback reply.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		respondError(w, http.StatusServiceUnavailable, "advisor is not enabled")
		return
	}
	userID := chi.URLParam(r, "userID")

	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	if h.cache != nil {
		ok, _ := h.cache.Allow(r.Context(), "chat:"+userID, chatRateLimit, chatRateWindow)
		if !ok {
			respondError(w, http.StatusTooManyRequests, "too many chat requests")
			return
		}
	}

	p, err := h.prefs.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	respondJSON(w, http.StatusOK, h.chat.Chat(r.Context(), p, body.History, body.Message))
}
