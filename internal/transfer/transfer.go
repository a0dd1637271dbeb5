// Package transfer reads and writes completion snapshots as YAML.
package transfer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/flourish/internal/model"
)

// Version is written into every exported document.
const Version = 1

// Document is the on-disk export format.
type Document struct {
	Version     int     `yaml:"version"`
	User        string  `yaml:"user,omitempty"`
	ExportedAt  string  `yaml:"exported_at,omitempty"`
	Completions []Entry `yaml:"completions"`
}

// Entry is one exported completion.
type Entry struct {
	ID          string `yaml:"id,omitempty"`
	Exercise    string `yaml:"exercise,omitempty"`
	Category    string `yaml:"category"`
	CompletedAt string `yaml:"completed_at"`
	Duration    int    `yaml:"duration_seconds"`
	Notes       string `yaml:"notes,omitempty"`
	Rating      int    `yaml:"rating,omitempty"`
}

// Skip describes an entry Decode left out.
type Skip struct {
	Index  int
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("entry %d: %s", s.Index, s.Reason)
}

// Encode writes records for user as a versioned YAML document.
func Encode(w io.Writer, user string, records []model.CompletionRecord, now time.Time) error {
	doc := Document{
		Version:     Version,
		User:        user,
		ExportedAt:  now.UTC().Format(time.RFC3339),
		Completions: make([]Entry, 0, len(records)),
	}
	for _, rec := range records {
		doc.Completions = append(doc.Completions, Entry{
			ID:          rec.ID,
			Exercise:    rec.Exercise,
			Category:    rec.Category,
			CompletedAt: rec.CompletedAt.Format(time.RFC3339Nano),
			Duration:    rec.DurationSeconds,
			Notes:       rec.Notes,
			Rating:      rec.Rating,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// Decode reads a document and returns its well-formed completions assigned to
// user. Malformed entries are left out and reported individually.
func Decode(r io.Reader, user string) ([]model.CompletionRecord, []Skip, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to decode import: %w", err)
	}
	if doc.Version > Version {
		return nil, nil, fmt.Errorf("unsupported export version %d", doc.Version)
	}

	records := make([]model.CompletionRecord, 0, len(doc.Completions))
	var skipped []Skip
	for i, entry := range doc.Completions {
		rec, reason := entry.record(user)
		if reason != "" {
			skipped = append(skipped, Skip{Index: i, Reason: reason})
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func (e Entry) record(user string) (model.CompletionRecord, string) {
	category := strings.TrimSpace(e.Category)
	if category == "" {
		return model.CompletionRecord{}, "missing category"
	}
	if e.Duration < 0 {
		return model.CompletionRecord{}, "negative duration"
	}
	completedAt, err := parseTime(e.CompletedAt)
	if err != nil {
		return model.CompletionRecord{}, fmt.Sprintf("bad completed_at %q", e.CompletedAt)
	}
	return model.CompletionRecord{
		ID:              e.ID,
		UserID:          user,
		Exercise:        e.Exercise,
		Category:        category,
		CompletedAt:     completedAt,
		DurationSeconds: e.Duration,
		Notes:           e.Notes,
		Rating:          e.Rating,
	}, ""
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
