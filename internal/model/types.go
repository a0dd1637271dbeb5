// Package model defines shared data structures.
package model

import "time"

// CompletionRecord captures a completed exercise.
type CompletionRecord struct {
	ID              string
	UserID          string
	Exercise        string
	Category        string
	CompletedAt     time.Time
	DurationSeconds int
	Notes           string
	Rating          int
}

// Stats is the derived view over a snapshot of completion records.
type Stats struct {
	TotalCount           int
	CurrentStreakDays    int
	LongestStreakDays    int
	TotalDurationMinutes int
	CategoryCounts       map[string]int
	// Categories lists CategoryCounts keys in order of first appearance.
	Categories       []string
	FavoriteCategory string
	Skipped          int
}

// WeeklyStats summarizes the calendar week containing a given day.
type WeeklyStats struct {
	WeekStart      time.Time
	CategoryCounts map[string]int
	TotalCount     int
	TotalMinutes   int
	Streak         int
}

// SliderSettings configures the duration slider, in minutes.
type SliderSettings struct {
	Min     float64
	Max     float64
	Step    float64
	Initial float64
}

// StatsConfig defines the snapshot and window used for stats output.
type StatsConfig struct {
	UserID string
	Limit  int
	Days   int
}
