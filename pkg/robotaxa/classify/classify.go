// Package classify scores device records against a taxonomy by substring
// keyword evidence. Scoring is pure: the same text and taxonomy always
// produce the same result, and levels never influence each other.
package classify

import (
	"strings"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/taxonomy"
)

// Confidence values the scorer emits. A keyword hit scores MatchScore; when
// nothing in a level hits, the level's fallback category scores
// FallbackScore. Branch refinements carry the score configured on their rule.
const (
	MatchScore    = 0.8
	FallbackScore = 0.5
)

// Classification maps level name to the categories scored at that level.
type Classification map[string]map[string]float64

// Classifier assigns taxonomy categories by keyword evidence.
type Classifier struct {
	tax *taxonomy.Definition
}

// NewClassifier creates a classifier over the given taxonomy. A nil taxonomy
// uses the embedded defaults.
func NewClassifier(tax *taxonomy.Definition) *Classifier {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Classifier{tax: tax}
}

// Taxonomy returns the definition this classifier scores against.
func (c *Classifier) Taxonomy() *taxonomy.Definition { return c.tax }

// Classify scores one record across every level independently. Every level
// appears in the result with at least one category.
func (c *Classifier) Classify(src Source) Classification {
	text := ExtractText(src)
	table := c.tax.Keywords()

	result := make(Classification)
	for _, lvl := range c.tax.Levels() {
		result[lvl.Name] = ScoreLevel(text, lvl, table)
	}
	return result
}

// ClassifyAll scores a batch, preserving input order.
func (c *Classifier) ClassifyAll(srcs []Source) []Classification {
	out := make([]Classification, len(srcs))
	for i, src := range srcs {
		out[i] = c.Classify(src)
	}
	return out
}

// ScoreLevel scores one level: every category whose triggers hit the text
// scores MatchScore; when none hit, the fallback category scores
// FallbackScore. The branch rule runs only when its parent category matched
// at MatchScore — a parent present via the fallback carries no evidence and
// never refines — and records the first matching refinement at the branch
// score.
func ScoreLevel(text string, lvl taxonomy.Level, table taxonomy.KeywordTable) map[string]float64 {
	scores := make(map[string]float64)

	for _, cat := range lvl.Categories {
		if containsAny(text, table.Triggers(lvl.Name, cat.Name)) {
			scores[cat.Name] = MatchScore
		}
	}

	if lvl.Branch != nil && scores[lvl.Branch.Parent] == MatchScore {
		for _, rule := range lvl.Branch.Rules {
			if containsAny(text, rule.Keywords) {
				scores[rule.Label] = lvl.Branch.Score
				break
			}
		}
	}

	if len(scores) == 0 {
		scores[lvl.Default] = FallbackScore
	}

	return scores
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
