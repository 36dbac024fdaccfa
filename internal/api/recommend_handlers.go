package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/pkg/logger"
)

// Cache keys for ranked recommendation lists. Invalidated by the
// preference-change observer wired at startup.
func productRecsKey(userID string) string { return "recs:products:" + userID }
func routineRecsKey(userID string) string { return "recs:routines:" + userID }

// RecommendProducts returns scored products for the user, best match first.
// The full ranked list is cached per user; the limit is applied after.
func (h *Handlers) RecommendProducts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := h.prefs.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	var ranked []domain.ScoredProduct
	if !h.cachedList(r.Context(), productRecsKey(userID), &ranked) {
		ranked = h.engine.RecommendProducts(p, 0)
		h.cacheList(r.Context(), productRecsKey(userID), ranked)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": truncate(ranked, h.limitParam(r)),
	})
}

// RecommendRoutines returns scored routines for the user.
func (h *Handlers) RecommendRoutines(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := h.prefs.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	var ranked []domain.ScoredRoutine
	if !h.cachedList(r.Context(), routineRecsKey(userID), &ranked) {
		ranked = h.engine.RecommendRoutines(p, 0)
		h.cacheList(r.Context(), routineRecsKey(userID), ranked)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"routines": truncate(ranked, h.limitParam(r)),
	})
}

// SearchProducts filters the catalog by query text, then ranks the matches
// with the user's preference scoring. Search results are not cached.
func (h *Handlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	query := r.URL.Query().Get("q")

	p, err := h.prefs.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":    query,
		"products": h.engine.SearchProducts(query, p, h.limitParam(r)),
	})
}

func (h *Handlers) cachedList(ctx context.Context, key string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	ok, err := h.cache.Get(ctx, key, dest)
	return err == nil && ok
}

func (h *Handlers) cacheList(ctx context.Context, key string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, value); err != nil {
		logger.Warn("Failed to cache recommendations", "key", key, "error", err.Error())
	}
}

func truncate[T any](list []T, limit int) []T {
	if list == nil {
		return []T{}
	}
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
