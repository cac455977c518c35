// Package summary tallies per-level category distributions over a classified
// corpus. Counts are multi-label: one entity can increment several categories
// within a level, so counts are not a partition of the corpus.
package summary

import "github.com/robotaxa/robotaxa/pkg/robotaxa/classify"

// ConfidenceThreshold separates keyword-matched categories from fallbacks.
// Only scores strictly above it count as confident.
const ConfidenceThreshold = 0.5

// Report maps level → category → number of confidently classified entities.
type Report struct {
	TotalEntities int                       `json:"total_entities"`
	Counts        map[string]map[string]int `json:"counts"`
}

// Count returns the confident-entity count for a (level, category) pair.
func (r Report) Count(level, category string) int {
	return r.Counts[level][category]
}

// Aggregator folds classifications into a distribution report. The zero
// value is not usable; construct with NewAggregator.
type Aggregator struct {
	total  int
	counts map[string]map[string]int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(map[string]map[string]int)}
}

// Add tallies one entity's classification: every category scoring above the
// threshold increments its counter. Branch refinement labels count as their
// own categories.
func (a *Aggregator) Add(c classify.Classification) {
	a.total++
	for level, cats := range c {
		for category, score := range cats {
			if score <= ConfidenceThreshold {
				continue
			}
			if a.counts[level] == nil {
				a.counts[level] = make(map[string]int)
			}
			a.counts[level][category]++
		}
	}
}

// Report returns a copy of the accumulated distribution.
func (a *Aggregator) Report() Report {
	counts := make(map[string]map[string]int, len(a.counts))
	for level, cats := range a.counts {
		counts[level] = make(map[string]int, len(cats))
		for category, n := range cats {
			counts[level][category] = n
		}
	}
	return Report{TotalEntities: a.total, Counts: counts}
}

// Summarize folds a batch of classifications into a report. It is stateless
// and recomputable on demand.
func Summarize(classifications []classify.Classification) Report {
	agg := NewAggregator()
	for _, c := range classifications {
		agg.Add(c)
	}
	return agg.Report()
}
