package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/flourish/internal/model"
)

// CategoryCount pairs a category with its completion count.
type CategoryCount struct {
	Category string
	Count    int
}

// TopCategories returns up to n categories by count, ties kept in order of
// first appearance. n <= 0 returns all of them.
func TopCategories(s model.Stats, n int) []CategoryCount {
	items := make([]CategoryCount, 0, len(s.Categories))
	for _, category := range s.Categories {
		items = append(items, CategoryCount{Category: category, Count: s.CategoryCounts[category]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}

// Neglected returns up to n domains with the fewest completions, in domain
// order among ties. Domains never practiced come first.
func Neglected(s model.Stats, domains []string, n int) []string {
	if len(domains) == 0 {
		return nil
	}
	candidates := make([]string, len(domains))
	copy(candidates, domains)
	sort.SliceStable(candidates, func(i, j int) bool {
		return s.CategoryCounts[candidates[i]] < s.CategoryCounts[candidates[j]]
	})
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// CategoryMinutes sums whole minutes per category over well-formed records.
func CategoryMinutes(records []model.CompletionRecord) map[string]int {
	seconds := map[string]int{}
	for _, rec := range records {
		if !wellFormed(rec) {
			continue
		}
		seconds[strings.TrimSpace(rec.Category)] += rec.DurationSeconds
	}
	out := make(map[string]int, len(seconds))
	for category, total := range seconds {
		out[category] = total / 60
	}
	return out
}
