package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dom/pitcher-favorites/internal/api/middleware"
	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
	authService     *service.AuthService
	log             *zap.Logger
}

func NewFavoriteHandler(favoriteService *service.FavoriteService, authService *service.AuthService, log *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		authService:     authService,
		log:             log,
	}
}

type AddFavoriteRequest struct {
	PitcherID  string `json:"pitcher_id" validate:"omitempty,uuid"`
	PlayerName string `json:"player_name" validate:"required_without=PitcherID"`
}

type SaveFavoritesRequest struct {
	PitcherNames []string `json:"pitcher_names" validate:"required"`
}

type FavoriteResponse struct {
	ID        string          `json:"id"`
	Pitcher   *domain.Pitcher `json:"pitcher"`
	CreatedAt time.Time       `json:"created_at"`
}

type AllFavoritesResponse struct {
	Username  string             `json:"username"`
	Favorites []FavoriteResponse `json:"favorites"`
	Count     int                `json:"count"`
}

type SaveFavoritesResponse struct {
	Message string               `json:"message"`
	Saved   []string             `json:"saved"`
	Count   int                  `json:"count"`
	Failed  []domain.SaveFailure `json:"failed"`
}

type ClearAllResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func toFavoriteResponses(favorites []*domain.FavoritePitcher) []FavoriteResponse {
	resp := make([]FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		resp = append(resp, toFavoriteResponse(f))
	}
	return resp
}

func toFavoriteResponse(f *domain.FavoritePitcher) FavoriteResponse {
	return FavoriteResponse{
		ID:        f.ID.String(),
		Pitcher:   f.Pitcher,
		CreatedAt: f.CreatedAt,
	}
}

// List returns the caller's favorites.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	favorites, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		h.internalError(w, "favorite.List", userID, err)
		return
	}

	writeJSON(w, http.StatusOK, toFavoriteResponses(favorites))
}

// GetAll returns favorites plus a count, for the caller or, for admins, the
// user named by ?username=.
func (h *FavoriteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveTarget(w, r, "favorite.GetAll")
	if !ok {
		return
	}

	summary, err := h.favoriteService.ListWithCount(r.Context(), target)
	if err != nil {
		h.internalError(w, "favorite.GetAll", target.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, AllFavoritesResponse{
		Username:  summary.Username,
		Favorites: toFavoriteResponses(summary.Favorites),
		Count:     summary.Count,
	})
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddFavoriteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ref := domain.PitcherRef{Name: req.PlayerName}
	if req.PitcherID != "" {
		id, err := uuid.Parse(req.PitcherID)
		if err != nil {
			http.Error(w, "pitcher_id must be a valid UUID", http.StatusBadRequest)
			return
		}
		ref.ID = &id
	}

	favorite, err := h.favoriteService.Add(r.Context(), userID, ref)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPitcherNotFound):
			http.Error(w, "Pitcher not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrFavoriteExists):
			http.Error(w, "Pitcher is already a favorite", http.StatusConflict)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrMissingPitcherRef):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.internalError(w, "favorite.Add", userID, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFavoriteResponse(favorite))
}

// Save replaces the target user's favorites with pitcher_names.
func (h *FavoriteHandler) Save(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveTarget(w, r, "favorite.Save")
	if !ok {
		return
	}

	var req SaveFavoritesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.favoriteService.Replace(r.Context(), target.ID, req.PitcherNames)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.internalError(w, "favorite.Save", target.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, SaveFavoritesResponse{
		Message: "Favorites saved",
		Saved:   result.Saved,
		Count:   result.Count,
		Failed:  result.Failed,
	})
}

func (h *FavoriteHandler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	name := r.URL.Query().Get("player_name")
	err := h.favoriteService.DeleteByName(r.Context(), userID, name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBlankPlayerName):
			http.Error(w, "player_name is required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrFavoriteNotFound):
			http.Error(w, "Favorite not found", http.StatusNotFound)
		default:
			h.internalError(w, "favorite.DeleteByName", userID, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FavoriteHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.favoriteService.ClearAll(r.Context(), userID)
	if err != nil {
		h.internalError(w, "favorite.ClearAll", userID, err)
		return
	}

	writeJSON(w, http.StatusOK, ClearAllResponse{
		Message: "All favorites cleared",
		Deleted: deleted,
	})
}

func (h *FavoriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Favorite not found", http.StatusNotFound)
		return
	}

	if err := h.favoriteService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrFavoriteNotFound) {
			http.Error(w, "Favorite not found", http.StatusNotFound)
			return
		}
		h.internalError(w, "favorite.Delete", userID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveTarget picks the user a request acts on and writes the error
// response itself when it cannot.
func (h *FavoriteHandler) resolveTarget(w http.ResponseWriter, r *http.Request, op string) (*domain.User, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	username := middleware.GetUsername(r.Context())

	actor := service.Actor{
		UserID:   userID,
		Username: username,
		IsAdmin:  h.authService.IsAdmin(username),
	}

	target, err := h.favoriteService.ResolveTarget(r.Context(), actor, r.URL.Query().Get("username"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.log.Warn("username override denied",
				zap.String("op", op),
				zap.Stringer("user_id", userID),
				zap.String("requested", r.URL.Query().Get("username")),
			)
			http.Error(w, "Admin access required to act for another user", http.StatusForbidden)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			h.internalError(w, op, userID, err)
		}
		return nil, false
	}
	return target, true
}

func (h *FavoriteHandler) internalError(w http.ResponseWriter, op string, userID uuid.UUID, err error) {
	h.log.Error("request failed", zap.String("op", op), zap.Stringer("user_id", userID), zap.Error(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
