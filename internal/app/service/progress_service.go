package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"prephub/internal/common"
	"prephub/internal/domain/model"
	"prephub/internal/domain/repository"
)

const (
	defaultLeaderboardLimit = 10
	// Bounded retry for read-modify-write conflicts on the progress record.
	maxProgressWriteRetries = 3
)

type ProgressService struct {
	progressRepo repository.ProgressRepository
}

func NewProgressService(progressRepo repository.ProgressRepository) *ProgressService {
	return &ProgressService{progressRepo: progressRepo}
}

// GetProgress returns the stored record, or a zero-value default that is not
// persisted until the first solve.
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*model.UserProgress, error) {
	progress, err := s.progressRepo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.NewUserProgress(userID), nil
		}
		return nil, err
	}
	return progress, nil
}

// MarkSolved records problemId in the user's global and per-level solved
// lists. It is idempotent: a problem already present returns the record
// unchanged without a write.
func (s *ProgressService) MarkSolved(ctx context.Context, userID, problemID, level string) (*model.UserProgress, error) {
	if !model.ValidLevel(level) {
		return nil, common.Errorf("level must be basic, medium or advanced: %w", common.ErrBadRequest)
	}

	return s.mutateProgress(ctx, userID, func(progress *model.UserProgress) bool {
		if containsID(progress.SolvedProblems, problemID) {
			return false
		}

		progress.SolvedProblems = append(progress.SolvedProblems, problemID)
		levelProgress := progress.ProgressByLevel[level]
		levelProgress.Solved = append(levelProgress.Solved, problemID)
		progress.ProgressByLevel[level] = levelProgress
		return true
	})
}

// MarkUnsolved removes problemId from both lists; removal of an absent id is
// a no-op on the lists but the record is still persisted.
func (s *ProgressService) MarkUnsolved(ctx context.Context, userID, problemID, level string) (*model.UserProgress, error) {
	if !model.ValidLevel(level) {
		return nil, common.Errorf("level must be basic, medium or advanced: %w", common.ErrBadRequest)
	}

	return s.mutateProgress(ctx, userID, func(progress *model.UserProgress) bool {
		progress.SolvedProblems = removeID(progress.SolvedProblems, problemID)
		levelProgress := progress.ProgressByLevel[level]
		levelProgress.Solved = removeID(levelProgress.Solved, problemID)
		progress.ProgressByLevel[level] = levelProgress
		return true
	})
}

// mutateProgress runs a read-modify-write cycle under the repository's
// conditional put, retrying a bounded number of times when a concurrent
// writer bumped the version first. mutate returns false to skip the write.
func (s *ProgressService) mutateProgress(ctx context.Context, userID string, mutate func(*model.UserProgress) bool) (*model.UserProgress, error) {
	var lastErr error
	for attempt := 0; attempt < maxProgressWriteRetries; attempt++ {
		progress, err := s.progressRepo.Find(ctx, userID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				return nil, err
			}
			progress = model.NewUserProgress(userID)
		}

		if !mutate(progress) {
			return progress, nil
		}

		progress.TotalSolved = len(progress.SolvedProblems)
		progress.LastUpdated = time.Now().UTC()

		expectedVersion := progress.Version
		if err := s.progressRepo.Put(ctx, progress, expectedVersion); err != nil {
			if errors.Is(err, common.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("failed to persist progress: %w", err)
		}
		return progress, nil
	}
	return nil, fmt.Errorf("progress update kept conflicting: %w", lastErr)
}

func (s *ProgressService) GetStats(ctx context.Context, userID string) (*model.ProgressStats, error) {
	progress, err := s.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return statsFromProgress(progress), nil
}

// GetLeaderboard scans every progress record and returns the top entries by
// totalSolved. Ties break deterministically by ascending userId.
func (s *ProgressService) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	records, err := s.progressRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan progress records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].TotalSolved != records[j].TotalSolved {
			return records[i].TotalSolved > records[j].TotalSolved
		}
		return records[i].UserID < records[j].UserID
	})

	if len(records) > limit {
		records = records[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(records))
	for i := range records {
		stats := statsFromProgress(&records[i])
		entries = append(entries, model.LeaderboardEntry{
			UserID:         records[i].UserID,
			TotalSolved:    stats.TotalSolved,
			BasicSolved:    stats.BasicSolved,
			MediumSolved:   stats.MediumSolved,
			AdvancedSolved: stats.AdvancedSolved,
			LastUpdated:    records[i].LastUpdated,
		})
	}
	return entries, nil
}

func statsFromProgress(progress *model.UserProgress) *model.ProgressStats {
	return &model.ProgressStats{
		TotalSolved:    progress.TotalSolved,
		BasicSolved:    len(progress.ProgressByLevel[model.LevelBasic].Solved),
		MediumSolved:   len(progress.ProgressByLevel[model.LevelMedium].Solved),
		AdvancedSolved: len(progress.ProgressByLevel[model.LevelAdvanced].Solved),
		LastUpdated:    progress.LastUpdated,
	}
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
