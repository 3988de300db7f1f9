package model

import (
	"time"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	LevelBasic    = "basic"
	LevelMedium   = "medium"
	LevelAdvanced = "advanced"
)

// ValidLevel reports whether level names one of the three problem tiers.
func ValidLevel(level string) bool {
	switch level {
	case LevelBasic, LevelMedium, LevelAdvanced:
		return true
	}
	return false
}

type Problem struct {
	ProblemID   string    `json:"problemId" dynamodbav:"problemId"`
	Name        string    `json:"name" dynamodbav:"name"`
	Difficulty  string    `json:"difficulty" dynamodbav:"difficulty"`
	Level       string    `json:"level" dynamodbav:"level"`
	Link        string    `json:"link" dynamodbav:"link"`
	Description string    `json:"description" dynamodbav:"description"`
	Tags        []string  `json:"tags" dynamodbav:"tags"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}
