// Package memstore is an in-memory store.Store for tests and ephemeral runs.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/internalerr"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store"
)

// Store keeps runs in mutex-guarded maps, copying on read and write so
// callers never share slices with the store.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	records map[string][]store.Record
	reports map[string]map[string]map[string]int
	order   []string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		runs:    make(map[string]store.Run),
		records: make(map[string][]store.Record),
		reports: make(map[string]map[string]map[string]int),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run and its records, replacing prior content for the id.
func (s *Store) SaveRun(ctx context.Context, run store.Run, records []store.Record) error {
	if run.ID == "" {
		return fmt.Errorf("memstore: run id required: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
	s.records[run.ID] = copyRecords(records)
	return nil
}

// GetRun loads a run and its records in insertion order.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, []store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return store.Run{}, nil, fmt.Errorf("memstore: run %q: %w", runID, internalerr.ErrNotFound)
	}
	return run, copyRecords(s.records[runID]), nil
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return store.Run{}, false, nil
	}
	return s.runs[s.order[len(s.order)-1]], true, nil
}

// SaveReport stores the distribution report for a run.
func (s *Store) SaveReport(ctx context.Context, runID string, counts map[string]map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("memstore: run %q: %w", runID, internalerr.ErrNotFound)
	}
	s.reports[runID] = copyCounts(counts)
	return nil
}

// GetReport loads the distribution report for a run.
func (s *Store) GetReport(ctx context.Context, runID string) (map[string]map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts, ok := s.reports[runID]
	if !ok {
		return nil, fmt.Errorf("memstore: report for run %q: %w", runID, internalerr.ErrNotFound)
	}
	return copyCounts(counts), nil
}

func copyRecords(in []store.Record) []store.Record {
	out := make([]store.Record, len(in))
	for i, rec := range in {
		out[i] = copyRecord(rec)
	}
	return out
}

func copyRecord(rec store.Record) store.Record {
	cp := rec
	cp.Applications = append([]string(nil), rec.Applications...)
	if rec.Scores != nil {
		cp.Scores = make(map[string]map[string]float64, len(rec.Scores))
		for level, cats := range rec.Scores {
			cp.Scores[level] = make(map[string]float64, len(cats))
			for cat, score := range cats {
				cp.Scores[level][cat] = score
			}
		}
	}
	if rec.Cluster != nil {
		id := *rec.Cluster
		cp.Cluster = &id
	}
	return cp
}

func copyCounts(in map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(in))
	for level, cats := range in {
		out[level] = make(map[string]int, len(cats))
		for cat, n := range cats {
			out[level][cat] = n
		}
	}
	return out
}
