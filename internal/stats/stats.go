// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/flourish/internal/model"
)

const sparkChars = " .:-=+*#%@"

// ComputeStats derives display statistics from a snapshot of completion
// records. Calendar days are taken in today's location. Malformed records are
// skipped and counted in Stats.Skipped.
func ComputeStats(records []model.CompletionRecord, today time.Time) model.Stats {
	result := model.Stats{CategoryCounts: map[string]int{}}
	var totalSeconds int64
	days := make([]time.Time, 0, len(records))
	for _, rec := range records {
		if !wellFormed(rec) {
			result.Skipped++
			continue
		}
		result.TotalCount++
		totalSeconds += int64(rec.DurationSeconds)
		category := strings.TrimSpace(rec.Category)
		if _, ok := result.CategoryCounts[category]; !ok {
			result.Categories = append(result.Categories, category)
		}
		result.CategoryCounts[category]++
		days = append(days, dayOf(rec.CompletedAt, today.Location()))
	}
	result.TotalDurationMinutes = int(totalSeconds / 60)
	result.FavoriteCategory = favorite(result.Categories, result.CategoryCounts)

	unique := uniqueDays(days)
	result.CurrentStreakDays = currentStreak(unique, dayOf(today, today.Location()))
	result.LongestStreakDays = longestStreak(unique)
	return result
}

// LongestStreak returns the longest run of consecutive days with at least one
// well-formed record, in loc.
func LongestStreak(records []model.CompletionRecord, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	days := make([]time.Time, 0, len(records))
	for _, rec := range records {
		if wellFormed(rec) {
			days = append(days, dayOf(rec.CompletedAt, loc))
		}
	}
	return longestStreak(uniqueDays(days))
}

// FavoriteShare returns the favorite category's share of all completions.
func FavoriteShare(s model.Stats) float64 {
	if s.TotalCount == 0 || s.FavoriteCategory == "" {
		return 0
	}
	return float64(s.CategoryCounts[s.FavoriteCategory]) / float64(s.TotalCount)
}

// Weekly summarizes the Sunday-based week containing today. Streak is the
// current streak as of today.
func Weekly(records []model.CompletionRecord, today time.Time) model.WeeklyStats {
	loc := today.Location()
	todayDay := dayOf(today, loc)
	start := todayDay.AddDate(0, 0, -int(todayDay.Weekday()))
	end := start.AddDate(0, 0, 7)

	week := make([]model.CompletionRecord, 0, len(records))
	for _, rec := range records {
		if !wellFormed(rec) {
			continue
		}
		day := dayOf(rec.CompletedAt, loc)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		week = append(week, rec)
	}
	weekStats := ComputeStats(week, today)
	return model.WeeklyStats{
		WeekStart:      time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
		CategoryCounts: weekStats.CategoryCounts,
		TotalCount:     weekStats.TotalCount,
		TotalMinutes:   weekStats.TotalDurationMinutes,
		Streak:         ComputeStats(records, today).CurrentStreakDays,
	}
}

// DailyMinutes returns minutes completed on each of the trailing days ending
// today, oldest first.
func DailyMinutes(records []model.CompletionRecord, today time.Time, days int) []float64 {
	if days <= 0 {
		return nil
	}
	loc := today.Location()
	last := dayOf(today, loc)
	first := last.AddDate(0, 0, -(days - 1))
	seconds := make([]int, days)
	for _, rec := range records {
		if !wellFormed(rec) {
			continue
		}
		day := dayOf(rec.CompletedAt, loc)
		if day.Before(first) || day.After(last) {
			continue
		}
		idx := int(day.Sub(first).Hours() / 24)
		seconds[idx] += rec.DurationSeconds
	}
	out := make([]float64, days)
	for i, s := range seconds {
		out[i] = float64(s) / 60
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func wellFormed(rec model.CompletionRecord) bool {
	return strings.TrimSpace(rec.Category) != "" && !rec.CompletedAt.IsZero() && rec.DurationSeconds >= 0
}

// dayOf maps t to its calendar date in loc, expressed as UTC midnight so
// consecutive days are exactly 24h apart.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// uniqueDays returns distinct days, newest first.
func uniqueDays(days []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(days))
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].After(out[j])
	})
	return out
}

func currentStreak(days []time.Time, today time.Time) int {
	yesterday := today.AddDate(0, 0, -1)
	i := 0
	for i < len(days) && days[i].After(today) {
		i++
	}
	if i == len(days) {
		return 0
	}
	if !days[i].Equal(today) && !days[i].Equal(yesterday) {
		return 0
	}
	streak := 1
	for j := i + 1; j < len(days); j++ {
		if !days[j].Equal(days[j-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

func longestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

func favorite(order []string, counts map[string]int) string {
	fav := ""
	best := 0
	for _, category := range order {
		if counts[category] > best {
			fav = category
			best = counts[category]
		}
	}
	return fav
}
