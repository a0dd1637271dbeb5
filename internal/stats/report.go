package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/flourish/internal/model"
)

// Source supplies completion snapshots.
type Source interface {
	ListCompletions(ctx context.Context, userID string, limit int) ([]model.CompletionRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records []model.CompletionRecord
	Stats   model.Stats
	Weekly  model.WeeklyStats
	Daily   []float64
	Today   time.Time
}

// BuildReport loads a snapshot for the configured user and aggregates it.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig, today time.Time) (Report, error) {
	records, err := src.ListCompletions(ctx, cfg.UserID, cfg.Limit)
	if err != nil {
		return Report{}, err
	}
	return NewReport(records, cfg.Days, today), nil
}

// NewReport aggregates an already loaded snapshot.
func NewReport(records []model.CompletionRecord, days int, today time.Time) Report {
	return Report{
		Records: records,
		Stats:   ComputeStats(records, today),
		Weekly:  Weekly(records, today),
		Daily:   DailyMinutes(records, today, days),
		Today:   today,
	}
}

// FilterByMinutes keeps records whose duration falls within [low, high]
// minutes, inclusive.
func FilterByMinutes(records []model.CompletionRecord, low, high float64) []model.CompletionRecord {
	out := make([]model.CompletionRecord, 0, len(records))
	for _, rec := range records {
		minutes := float64(rec.DurationSeconds) / 60
		if minutes < low || minutes > high {
			continue
		}
		out = append(out, rec)
	}
	return out
}
