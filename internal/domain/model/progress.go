package model

import (
	"time"
)

// LevelProgress holds the solved list for one difficulty tier. Total is the
// number of problems available at the tier, maintained elsewhere; only the
// solved list changes on solve/unsolve.
type LevelProgress struct {
	Solved []string `json:"solved" dynamodbav:"solved"`
	Total  int      `json:"total" dynamodbav:"total"`
}

// UserProgress is the per-user solved-problem aggregate, keyed by userId.
// Invariants: TotalSolved == len(SolvedProblems), and every per-level solved
// list is a subset of SolvedProblems. The version attribute backs conditional
// writes; it never leaves the API.
type UserProgress struct {
	UserID          string                   `json:"userId" dynamodbav:"userId"`
	SolvedProblems  []string                 `json:"solvedProblems" dynamodbav:"solvedProblems"`
	ProgressByLevel map[string]LevelProgress `json:"progressByLevel" dynamodbav:"progressByLevel"`
	TotalSolved     int                      `json:"totalSolved" dynamodbav:"totalSolved"`
	LastUpdated     time.Time                `json:"lastUpdated" dynamodbav:"lastUpdated"`
	Version         int64                    `json:"-" dynamodbav:"version"`
}

// NewUserProgress returns the zero-value record handed out before any solve
// has been persisted.
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:         userID,
		SolvedProblems: []string{},
		ProgressByLevel: map[string]LevelProgress{
			LevelBasic:    {Solved: []string{}},
			LevelMedium:   {Solved: []string{}},
			LevelAdvanced: {Solved: []string{}},
		},
		TotalSolved: 0,
		LastUpdated: time.Now().UTC(),
	}
}

type ProgressStats struct {
	TotalSolved    int       `json:"totalSolved"`
	BasicSolved    int       `json:"basicSolved"`
	MediumSolved   int       `json:"mediumSolved"`
	AdvancedSolved int       `json:"advancedSolved"`
	LastUpdated    time.Time `json:"lastUpdated"`
}
