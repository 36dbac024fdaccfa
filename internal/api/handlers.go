package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lumina/glow-platform/internal/advisor"
	"github.com/lumina/glow-platform/internal/analysis"
	"github.com/lumina/glow-platform/internal/config"
	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/feed"
	"github.com/lumina/glow-platform/internal/notify"
	"github.com/lumina/glow-platform/internal/prefs"
	"github.com/lumina/glow-platform/internal/recommend"
	"github.com/lumina/glow-platform/internal/store"
)

// ChatService answers advisor chat turns. Satisfied by *advisor.Advisor.
type ChatService interface {
	Chat(ctx context.Context, prefs domain.UserPreferences, history []advisor.Message, userMessage string) advisor.Reply
}

// Handlers holds the service collaborators behind the HTTP surface. Any of
// the optional ones (advisor, trends, cache) may be nil; their endpoints
// then report unavailability.
type Handlers struct {
	prefs     *prefs.Service
	engine    *recommend.Engine
	pipeline  *analysis.Pipeline
	scheduler *notify.Scheduler
	chat      ChatService
	trends    *feed.Service
	cache     *store.Cache
	recommend config.RecommendConfig
	startedAt time.Time
}

// NewHandlers wires the handler set.
func NewHandlers(
	prefSvc *prefs.Service,
	engine *recommend.Engine,
	pipeline *analysis.Pipeline,
	scheduler *notify.Scheduler,
	chat ChatService,
	trends *feed.Service,
	cache *store.Cache,
	recommendCfg config.RecommendConfig,
) *Handlers {
	return &Handlers{
		prefs:     prefSvc,
		engine:    engine,
		pipeline:  pipeline,
		scheduler: scheduler,
		chat:      chat,
		trends:    trends,
		cache:     cache,
		recommend: recommendCfg,
		startedAt: time.Now(),
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// limitParam parses ?limit= clamped to the configured maximum. Absent or
// invalid values fall back to the default.
func (h *Handlers) limitParam(r *http.Request) int {
	limit := h.recommend.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if h.recommend.MaxLimit > 0 && limit > h.recommend.MaxLimit {
		limit = h.recommend.MaxLimit
	}
	return limit
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
