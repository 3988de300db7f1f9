package service

import (
	"context"
	"fmt"
	"time"

	"prephub/internal/common"
	"prephub/internal/domain/model"
	"prephub/internal/domain/repository"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

type CreateProblemRequest struct {
	Name        string   `json:"name"`
	Difficulty  string   `json:"difficulty"`
	Level       string   `json:"level"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UpdateProblemRequest struct {
	Name        *string   `json:"name,omitempty"`
	Difficulty  *string   `json:"difficulty,omitempty"`
	Level       *string   `json:"level,omitempty"`
	Link        *string   `json:"link,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, req CreateProblemRequest) (*model.Problem, error) {
	if req.Name == "" || req.Difficulty == "" || req.Level == "" || req.Link == "" {
		return nil, common.Errorf("missing required fields for problem creation: %w", common.ErrBadRequest)
	}
	if !model.ValidLevel(req.Level) {
		return nil, common.Errorf("level must be basic, medium or advanced: %w", common.ErrBadRequest)
	}

	now := time.Now().UTC()
	problem := &model.Problem{
		ProblemID:   newEntityID("problem"),
		Name:        req.Name,
		Difficulty:  req.Difficulty,
		Level:       req.Level,
		Link:        req.Link,
		Description: req.Description,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if problem.Tags == nil {
		problem.Tags = []string{}
	}

	if err := s.problemRepo.Put(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) GetAllProblems(ctx context.Context) ([]model.Problem, error) {
	return s.problemRepo.FindAll(ctx)
}

func (s *ProblemService) GetProblemsByLevel(ctx context.Context, level string) ([]model.Problem, error) {
	if !model.ValidLevel(level) {
		return nil, common.Errorf("level must be basic, medium or advanced: %w", common.ErrBadRequest)
	}
	return s.problemRepo.FindByLevel(ctx, level)
}

func (s *ProblemService) GetProblemByID(ctx context.Context, problemID string) (*model.Problem, error) {
	return s.problemRepo.FindByID(ctx, problemID)
}

// UpdateProblem overwrites only the supplied fields. The read-before-write
// check keeps updates from silently creating records.
func (s *ProblemService) UpdateProblem(ctx context.Context, problemID string, req UpdateProblemRequest) (*model.Problem, error) {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		problem.Name = *req.Name
	}
	if req.Difficulty != nil {
		problem.Difficulty = *req.Difficulty
	}
	if req.Level != nil {
		if !model.ValidLevel(*req.Level) {
			return nil, common.Errorf("level must be basic, medium or advanced: %w", common.ErrBadRequest)
		}
		problem.Level = *req.Level
	}
	if req.Link != nil {
		problem.Link = *req.Link
	}
	if req.Description != nil {
		problem.Description = *req.Description
	}
	if req.Tags != nil {
		problem.Tags = *req.Tags
	}
	problem.UpdatedAt = time.Now().UTC()

	if err := s.problemRepo.Put(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) DeleteProblem(ctx context.Context, problemID string) error {
	if _, err := s.problemRepo.FindByID(ctx, problemID); err != nil {
		return err
	}
	// Deleting a problem does not cascade into users' solved lists.
	if err := s.problemRepo.Delete(ctx, problemID); err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}
	return nil
}
