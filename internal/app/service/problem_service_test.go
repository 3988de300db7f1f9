package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"prephub/internal/common"
	"prephub/internal/domain/model"
	"prephub/internal/domain/repository"
)

func newProblemFixture(t *testing.T) *ProblemService {
	t.Helper()
	return NewProblemService(repository.NewMemoryProblemRepository())
}

func TestCreateProblem(t *testing.T) {
	svc := newProblemFixture(t)
	ctx := context.Background()

	problem, err := svc.CreateProblem(ctx, CreateProblemRequest{
		Name:       "Two Sum",
		Difficulty: model.DifficultyEasy,
		Level:      model.LevelBasic,
		Link:       "https://leetcode.com/problems/two-sum",
		Tags:       []string{"array", "hashmap"},
	})
	if err != nil {
		t.Fatalf("CreateProblem: %v", err)
	}
	if !strings.HasPrefix(problem.ProblemID, "problem_") {
		t.Errorf("problemID = %q, want problem_ prefix", problem.ProblemID)
	}
	if problem.CreatedAt.IsZero() || problem.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on creation")
	}

	fetched, err := svc.GetProblemByID(ctx, problem.ProblemID)
	if err != nil {
		t.Fatalf("GetProblemByID: %v", err)
	}
	if fetched.Name != "Two Sum" {
		t.Errorf("name = %q, want Two Sum", fetched.Name)
	}
}

func TestCreateProblemValidation(t *testing.T) {
	svc := newProblemFixture(t)
	ctx := context.Background()

	_, err := svc.CreateProblem(ctx, CreateProblemRequest{Name: "No Link", Difficulty: model.DifficultyEasy, Level: model.LevelBasic})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for missing link, got %v", err)
	}

	_, err = svc.CreateProblem(ctx, CreateProblemRequest{
		Name: "Bad Level", Difficulty: model.DifficultyEasy, Level: "expert", Link: "https://example.com",
	})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for invalid level, got %v", err)
	}
}

func TestCreateProblemDefaultsTags(t *testing.T) {
	svc := newProblemFixture(t)

	problem, err := svc.CreateProblem(context.Background(), CreateProblemRequest{
		Name: "Untagged", Difficulty: model.DifficultyMedium, Level: model.LevelMedium, Link: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreateProblem: %v", err)
	}
	if problem.Tags == nil || len(problem.Tags) != 0 {
		t.Fatalf("tags = %#v, want empty non-nil slice", problem.Tags)
	}
}

func TestGetProblemsByLevel(t *testing.T) {
	svc := newProblemFixture(t)
	ctx := context.Background()

	for _, p := range []CreateProblemRequest{
		{Name: "A", Difficulty: model.DifficultyEasy, Level: model.LevelBasic, Link: "https://example.com/a"},
		{Name: "B", Difficulty: model.DifficultyHard, Level: model.LevelAdvanced, Link: "https://example.com/b"},
		{Name: "C", Difficulty: model.DifficultyEasy, Level: model.LevelBasic, Link: "https://example.com/c"},
	} {
		if _, err := svc.CreateProblem(ctx, p); err != nil {
			t.Fatalf("CreateProblem %s: %v", p.Name, err)
		}
	}

	basic, err := svc.GetProblemsByLevel(ctx, model.LevelBasic)
	if err != nil {
		t.Fatalf("GetProblemsByLevel: %v", err)
	}
	if len(basic) != 2 {
		t.Fatalf("basic problems = %d, want 2", len(basic))
	}

	if _, err := svc.GetProblemsByLevel(ctx, "expert"); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for invalid level, got %v", err)
	}

	all, err := svc.GetAllProblems(ctx)
	if err != nil {
		t.Fatalf("GetAllProblems: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all problems = %d, want 3", len(all))
	}
}

func TestUpdateProblem(t *testing.T) {
	svc := newProblemFixture(t)
	ctx := context.Background()

	problem, err := svc.CreateProblem(ctx, CreateProblemRequest{
		Name: "Old Name", Difficulty: model.DifficultyEasy, Level: model.LevelBasic, Link: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreateProblem: %v", err)
	}

	newName := "New Name"
	newLevel := model.LevelAdvanced
	updated, err := svc.UpdateProblem(ctx, problem.ProblemID, UpdateProblemRequest{Name: &newName, Level: &newLevel})
	if err != nil {
		t.Fatalf("UpdateProblem: %v", err)
	}
	if updated.Name != newName || updated.Level != newLevel {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Link != "https://example.com" {
		t.Errorf("untouched field changed: link = %q", updated.Link)
	}

	badLevel := "expert"
	if _, err := svc.UpdateProblem(ctx, problem.ProblemID, UpdateProblemRequest{Level: &badLevel}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for invalid level, got %v", err)
	}

	if _, err := svc.UpdateProblem(ctx, "problem_missing", UpdateProblemRequest{Name: &newName}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found for unknown problem, got %v", err)
	}
}

func TestDeleteProblem(t *testing.T) {
	svc := newProblemFixture(t)
	ctx := context.Background()

	problem, err := svc.CreateProblem(ctx, CreateProblemRequest{
		Name: "Doomed", Difficulty: model.DifficultyEasy, Level: model.LevelBasic, Link: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreateProblem: %v", err)
	}

	if err := svc.DeleteProblem(ctx, problem.ProblemID); err != nil {
		t.Fatalf("DeleteProblem: %v", err)
	}
	if _, err := svc.GetProblemByID(ctx, problem.ProblemID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteProblem(ctx, problem.ProblemID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found for second delete, got %v", err)
	}
}
