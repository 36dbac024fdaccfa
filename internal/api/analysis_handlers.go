package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumina/glow-platform/internal/analysis"
	"github.com/lumina/glow-platform/internal/domain"
)

// Uploads beyond this are rejected before decoding.
const maxImageBytes = 10 << 20

// CreateAnalysis accepts a multipart image upload and runs the fashion
// analysis pipeline on it.
func (h *Handlers) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	result, err := h.pipeline.Analyze(r.Context(), userID, data)
	if errors.Is(err, analysis.ErrInvalidImage) {
		respondError(w, http.StatusUnprocessableEntity, "image could not be decoded")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// ListAnalyses returns the user's stored analyses.
func (h *Handlers) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	results, err := h.pipeline.History(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load analyses")
		return
	}
	if results == nil {
		results = []domain.AnalysisResult{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"analyses": results})
}
