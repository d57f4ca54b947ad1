package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PitcherHandler struct {
	pitcherService *service.PitcherService
	log            *zap.Logger
}

func NewPitcherHandler(pitcherService *service.PitcherService, log *zap.Logger) *PitcherHandler {
	return &PitcherHandler{pitcherService: pitcherService, log: log}
}

// List supports ?search= over player and team names plus exact ?team=,
// ?pitch_type= and ?throws= filters.
func (h *PitcherHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PitcherFilter{
		Search:    q.Get("search"),
		TeamName:  q.Get("team"),
		PitchType: q.Get("pitch_type"),
		Throws:    q.Get("throws"),
	}

	pitchers, err := h.pitcherService.List(r.Context(), filter)
	if err != nil {
		h.log.Error("list pitchers failed", zap.String("op", "pitcher.List"), zap.Error(err))
		http.Error(w, "Failed to get pitchers", http.StatusInternalServerError)
		return
	}
	if pitchers == nil {
		pitchers = []*domain.Pitcher{}
	}

	writeJSON(w, http.StatusOK, pitchers)
}

func (h *PitcherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Pitcher not found", http.StatusNotFound)
		return
	}

	pitcher, err := h.pitcherService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPitcherNotFound) {
			http.Error(w, "Pitcher not found", http.StatusNotFound)
			return
		}
		h.log.Error("get pitcher failed", zap.String("op", "pitcher.Get"), zap.Stringer("pitcher_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, pitcher)
}
