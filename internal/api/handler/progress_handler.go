package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"prephub/internal/api/middleware"
	"prephub/internal/app/service"
	"prephub/internal/common"
	"prephub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.getProgress)
	r.Get("/stats", h.getStats)
	r.Get("/leaderboard", h.getLeaderboard)
	r.Post("/solve", h.markSolved)
	r.Post("/unsolve", h.markUnsolved)
}

type progressResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    *model.UserProgress `json:"data,omitempty"`
}

type solveRequest struct {
	ProblemID string `json:"problemId"`
	Level     string `json:"level"`
}

func (h *ProgressHandler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	progress, err := h.progressService.GetProgress(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progressResponse{Success: true, Data: progress})
}

func (h *ProgressHandler) getStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	stats, err := h.progressService.GetStats(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, struct {
		Success bool                 `json:"success"`
		Data    *model.ProgressStats `json:"data"`
	}{Success: true, Data: stats})
}

func (h *ProgressHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.progressService.GetLeaderboard(r.Context(), limit)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, struct {
		Success bool                     `json:"success"`
		Count   int                      `json:"count"`
		Data    []model.LeaderboardEntry `json:"data"`
	}{Success: true, Count: len(entries), Data: entries})
}

func (h *ProgressHandler) markSolved(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.progressService.MarkSolved, "Problem marked as solved")
}

func (h *ProgressHandler) markUnsolved(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.progressService.MarkUnsolved, "Problem marked as unsolved")
}

func (h *ProgressHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, problemID, level string) (*model.UserProgress, error),
	message string,
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProblemID == "" || req.Level == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problemId and level are required")
		return
	}

	progress, err := op(r.Context(), userID, req.ProblemID, req.Level)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progressResponse{
		Success: true,
		Message: message,
		Data:    progress,
	})
}
