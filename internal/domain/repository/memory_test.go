package repository

import (
	"context"
	"errors"
	"testing"

	"prephub/internal/common"
	"prephub/internal/domain/model"
)

func seedProgress(t *testing.T, repo *MemoryProgressRepository, userID string) *model.UserProgress {
	t.Helper()
	progress := model.NewUserProgress(userID)
	progress.SolvedProblems = []string{"problem_a"}
	progress.ProgressByLevel[model.LevelBasic] = model.LevelProgress{Solved: []string{"problem_a"}}
	progress.TotalSolved = 1
	if err := repo.Put(context.Background(), progress, 0); err != nil {
		t.Fatalf("seed Put: %v", err)
	}
	return progress
}

func TestMemoryProgressFindReturnsIsolatedCopy(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()
	seedProgress(t, repo, "user_1")

	found, err := repo.Find(ctx, "user_1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	// Mutations on the returned record must not reach stored state.
	found.SolvedProblems = append(found.SolvedProblems, "problem_b")
	levelProgress := found.ProgressByLevel[model.LevelBasic]
	levelProgress.Solved = append(levelProgress.Solved, "problem_b")
	found.ProgressByLevel[model.LevelBasic] = levelProgress

	stored, err := repo.Find(ctx, "user_1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(stored.SolvedProblems) != 1 {
		t.Fatalf("stored solved list = %v, want the seeded single entry", stored.SolvedProblems)
	}
	if got := len(stored.ProgressByLevel[model.LevelBasic].Solved); got != 1 {
		t.Fatalf("stored basic solved = %d entries, want 1", got)
	}
}

func TestMemoryProgressFailedPutLeavesStoreUntouched(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()
	seedProgress(t, repo, "user_1")

	// Read, mutate, then lose the conditional write with a stale version.
	found, err := repo.Find(ctx, "user_1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	found.SolvedProblems = append(found.SolvedProblems, "problem_b")
	levelProgress := found.ProgressByLevel[model.LevelBasic]
	levelProgress.Solved = append(levelProgress.Solved, "problem_b")
	found.ProgressByLevel[model.LevelBasic] = levelProgress
	found.TotalSolved = 2

	if err := repo.Put(ctx, found, found.Version+1); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("stale Put: got %v, want conflict", err)
	}

	stored, err := repo.Find(ctx, "user_1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if stored.TotalSolved != 1 || len(stored.SolvedProblems) != 1 {
		t.Fatalf("rejected write leaked into the store: %+v", stored)
	}
	if got := len(stored.ProgressByLevel[model.LevelBasic].Solved); got != 1 {
		t.Fatalf("rejected write leaked into per-level state: %d entries, want 1", got)
	}
}

func TestMemoryProgressVersionConflicts(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()

	progress := model.NewUserProgress("user_1")
	if err := repo.Put(ctx, progress, 0); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	// A second create against an existing record conflicts.
	if err := repo.Put(ctx, model.NewUserProgress("user_1"), 0); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("duplicate create: got %v, want conflict", err)
	}
	// The matching version succeeds and bumps.
	current, err := repo.Find(ctx, "user_1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	before := current.Version
	if err := repo.Put(ctx, current, before); err != nil {
		t.Fatalf("versioned Put: %v", err)
	}
	bumped, err := repo.Find(ctx, "user_1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if bumped.Version != before+1 {
		t.Fatalf("version = %d, want %d", bumped.Version, before+1)
	}
}
