package api

import (
	"net/http"
	"strconv"
)

// GetTrends returns one page of cached trend articles.
func (h *Handlers) GetTrends(w http.ResponseWriter, r *http.Request) {
	if h.trends == nil {
		respondError(w, http.StatusServiceUnavailable, "trends feed is not enabled")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	respondJSON(w, http.StatusOK, h.trends.Trends(page, pageSize))
}
