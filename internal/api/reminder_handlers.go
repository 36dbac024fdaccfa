package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumina/glow-platform/internal/domain"
)

// CreateReminder queues a reminder. A request the scheduler declines
// (past one-shot fire time, or reminder permission denied) returns 409
// with accepted=false rather than an error.
func (h *Handlers) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var body domain.ScheduledNotification
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body.UserID = userID
	body.ID = ""

	accepted, err := h.scheduler.Schedule(r.Context(), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !accepted {
		respondJSON(w, http.StatusConflict, map[string]interface{}{"accepted": false})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"accepted": true})
}

// ListReminders returns the user's pending reminders.
func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	pending, err := h.scheduler.List(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load reminders")
		return
	}
	if pending == nil {
		pending = []domain.ScheduledNotification{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reminders": pending})
}

// CancelReminder removes a pending reminder.
func (h *Handlers) CancelReminder(w http.ResponseWriter, r *http.Request) {
	reminderID := chi.URLParam(r, "reminderID")

	ok, err := h.scheduler.Cancel(r.Context(), reminderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to cancel reminder")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "reminder not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"canceled": true})
}
