package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/claims-engine/internal/service"
)

// TrackHandler обрабатывает публичную страницу отслеживания
type TrackHandler struct {
	projector *service.ProgressProjector
}

// NewTrackHandler создает новый TrackHandler
func NewTrackHandler(projector *service.ProgressProjector) *TrackHandler {
	return &TrackHandler{
		projector: projector,
	}
}

// Track обрабатывает GET /track/{claimID}
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	view, err := h.projector.Track(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, view)
}
