package model

import "time"

type LeaderboardEntry struct {
	UserID         string    `json:"userId"`
	TotalSolved    int       `json:"totalSolved"`
	BasicSolved    int       `json:"basicSolved"`
	MediumSolved   int       `json:"mediumSolved"`
	AdvancedSolved int       `json:"advancedSolved"`
	LastUpdated    time.Time `json:"lastUpdated"`
}
