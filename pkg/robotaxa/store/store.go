// Package store defines persistence for classification runs: the entities of
// a run in input order, their per-level scores and cluster ids, and the
// distribution report derived from them.
package store

import (
	"context"
	"time"
)

// Store persists classification runs.
type Store interface {
	Close() error

	// SaveRun stores a run and its records, replacing any prior content
	// under the same run id.
	SaveRun(ctx context.Context, run Run, records []Record) error

	// GetRun loads a run and its records in insertion order.
	GetRun(ctx context.Context, runID string) (Run, []Record, error)

	// LatestRun returns the most recently created run, if any.
	LatestRun(ctx context.Context) (Run, bool, error)

	// SaveReport stores the distribution report for a run.
	SaveReport(ctx context.Context, runID string, counts map[string]map[string]int) error

	// GetReport loads the distribution report for a run.
	GetReport(ctx context.Context, runID string) (map[string]map[string]int, error)
}

// Run identifies one classification pass over a corpus.
type Run struct {
	ID              string
	CreatedAt       time.Time
	TaxonomyVersion string
}

// Record is one classified entity within a run. Position preserves input
// order; Cluster is nil until a clustering pass annotates the run.
type Record struct {
	Position     int
	Name         string
	URL          string
	Description  string
	Category     string
	Manufacturer string
	Applications []string
	Scores       map[string]map[string]float64
	Cluster      *int
}
