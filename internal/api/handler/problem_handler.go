package handler

import (
	"encoding/json"
	"net/http"

	"prephub/internal/api/middleware"
	"prephub/internal/app/service"
	"prephub/internal/common"
	"prephub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: problemService}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Get("/level/{level}", h.listProblemsByLevel)
	r.Get("/{problemID}", h.getProblem)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createProblem)
		adminRouter.Put("/{problemID}", h.updateProblem)
		adminRouter.Delete("/{problemID}", h.deleteProblem)
	})
}

type problemListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []model.Problem `json:"data"`
}

type problemResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    *model.Problem `json:"data,omitempty"`
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	problem, err := h.problemService.CreateProblem(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problemResponse{
		Success: true,
		Message: "Problem created successfully",
		Data:    problem,
	})
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.problemService.GetAllProblems(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problemListResponse{
		Success: true,
		Count:   len(problems),
		Data:    problems,
	})
}

func (h *ProblemHandler) listProblemsByLevel(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")

	problems, err := h.problemService.GetProblemsByLevel(r.Context(), level)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problemListResponse{
		Success: true,
		Count:   len(problems),
		Data:    problems,
	})
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")

	problem, err := h.problemService.GetProblemByID(r.Context(), problemID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problemResponse{Success: true, Data: problem})
}

func (h *ProblemHandler) updateProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")

	var req service.UpdateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	problem, err := h.problemService.UpdateProblem(r.Context(), problemID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problemResponse{
		Success: true,
		Message: "Problem updated successfully",
		Data:    problem,
	})
}

func (h *ProblemHandler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")

	if err := h.problemService.DeleteProblem(r.Context(), problemID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problemResponse{
		Success: true,
		Message: "Problem deleted successfully",
	})
}
