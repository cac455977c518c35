// Package taxonomy defines the classification scheme: ordered levels, the
// categories inside each level, per-level fallback categories, and the keyword
// table that drives rule-based scoring. A Definition is immutable once built;
// classifiers share it freely across goroutines.
package taxonomy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/internalerr"
)

// Category is one label inside a level.
type Category struct {
	Name        string
	Description string
	// Keywords are curated lowercase substring triggers. When empty, triggers
	// are derived from the description at build time.
	Keywords []string
}

// BranchPredicate maps a keyword set to a refinement label. Predicates are
// evaluated in order; the first one whose keywords hit the text wins.
type BranchPredicate struct {
	Keywords []string
	Label    string
}

// BranchRule refines a parent category into a sub-branch label such as
// "Mobile.Wheeled". At most one refinement is recorded per level.
type BranchRule struct {
	Parent string
	Score  float64
	Rules  []BranchPredicate
}

// Level is one rank of the scheme: an ordered set of categories plus the
// fallback category used when nothing matches.
type Level struct {
	Name       string
	Default    string
	Categories []Category
	Branch     *BranchRule
}

// Definition is a validated, immutable taxonomy: the levels in rank order and
// the keyword table built from them.
type Definition struct {
	version  string
	levels   []Level
	keywords KeywordTable
}

// KeywordTable maps (level, category) to the lowercase substring triggers the
// scorer consults. It is the only keyword representation that exists after
// construction.
type KeywordTable struct {
	version string
	entries map[string]map[string][]string
}

// New validates the levels and builds the keyword table. Curated keywords take
// precedence; categories without curated entries get triggers derived from
// their descriptions.
func New(version string, levels []Level) (*Definition, error) {
	if version == "" {
		return nil, fmt.Errorf("taxonomy: version required: %w", internalerr.ErrInvalidInput)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("taxonomy: at least one level required: %w", internalerr.ErrInvalidInput)
	}

	seenLevels := make(map[string]struct{}, len(levels))
	table := KeywordTable{
		version: version,
		entries: make(map[string]map[string][]string, len(levels)),
	}

	for _, lvl := range levels {
		if lvl.Name == "" {
			return nil, fmt.Errorf("taxonomy: level with empty name: %w", internalerr.ErrInvalidInput)
		}
		if _, dup := seenLevels[lvl.Name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate level %q: %w", lvl.Name, internalerr.ErrInvalidInput)
		}
		seenLevels[lvl.Name] = struct{}{}

		if len(lvl.Categories) == 0 {
			return nil, fmt.Errorf("taxonomy: level %q has no categories: %w", lvl.Name, internalerr.ErrInvalidInput)
		}

		seenCats := make(map[string]struct{}, len(lvl.Categories))
		table.entries[lvl.Name] = make(map[string][]string, len(lvl.Categories))
		for _, cat := range lvl.Categories {
			if cat.Name == "" {
				return nil, fmt.Errorf("taxonomy: level %q has category with empty name: %w", lvl.Name, internalerr.ErrInvalidInput)
			}
			if _, dup := seenCats[cat.Name]; dup {
				return nil, fmt.Errorf("taxonomy: level %q duplicate category %q: %w", lvl.Name, cat.Name, internalerr.ErrInvalidInput)
			}
			seenCats[cat.Name] = struct{}{}

			triggers := normalizeKeywords(cat.Keywords)
			if len(triggers) == 0 {
				triggers = DeriveKeywords(cat.Description)
			}
			table.entries[lvl.Name][cat.Name] = triggers
		}

		if _, ok := seenCats[lvl.Default]; !ok {
			return nil, fmt.Errorf("taxonomy: level %q default %q is not a member category: %w", lvl.Name, lvl.Default, internalerr.ErrInvalidInput)
		}

		if lvl.Branch != nil {
			if _, ok := seenCats[lvl.Branch.Parent]; !ok {
				return nil, fmt.Errorf("taxonomy: level %q branch parent %q is not a member category: %w", lvl.Name, lvl.Branch.Parent, internalerr.ErrInvalidInput)
			}
			if lvl.Branch.Score <= 0 || lvl.Branch.Score >= 1 {
				return nil, fmt.Errorf("taxonomy: level %q branch score %v out of range: %w", lvl.Name, lvl.Branch.Score, internalerr.ErrInvalidInput)
			}
			for _, rule := range lvl.Branch.Rules {
				if rule.Label == "" || len(rule.Keywords) == 0 {
					return nil, fmt.Errorf("taxonomy: level %q has incomplete branch rule: %w", lvl.Name, internalerr.ErrInvalidInput)
				}
			}
		}
	}

	return &Definition{
		version:  version,
		levels:   copyLevels(levels),
		keywords: table,
	}, nil
}

// Version returns the taxonomy version string.
func (d *Definition) Version() string { return d.version }

// Levels returns the levels in rank order.
func (d *Definition) Levels() []Level { return copyLevels(d.levels) }

// LevelNames returns the level names in rank order.
func (d *Definition) LevelNames() []string {
	names := make([]string, len(d.levels))
	for i, lvl := range d.levels {
		names[i] = lvl.Name
	}
	return names
}

// Level looks up a level by name.
func (d *Definition) Level(name string) (Level, bool) {
	for _, lvl := range d.levels {
		if lvl.Name == name {
			return copyLevel(lvl), true
		}
	}
	return Level{}, false
}

// Keywords returns the keyword table shared by all levels.
func (d *Definition) Keywords() KeywordTable { return d.keywords }

// Version returns the table version, which matches the taxonomy that built it.
func (t KeywordTable) Version() string { return t.version }

// Triggers returns the substring triggers for a (level, category) pair.
func (t KeywordTable) Triggers(level, category string) []string {
	cats, ok := t.entries[level]
	if !ok {
		return nil
	}
	triggers := cats[category]
	out := make([]string, len(triggers))
	copy(out, triggers)
	return out
}

// derivationStops are dropped when deriving triggers from category
// descriptions. Deliberately small: descriptions are short curated phrases,
// not free text.
var derivationStops = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"are": {}, "has": {}, "have": {}, "its": {}, "can": {}, "may": {},
	"such": {}, "other": {}, "robot": {}, "robots": {}, "robotic": {},
	"systems": {}, "system": {}, "using": {}, "used": {}, "use": {},
	"their": {}, "them": {}, "into": {}, "from": {}, "which": {},
}

// DeriveKeywords extracts lowercase content tokens from a category
// description: stopwords and tokens shorter than three runes are dropped,
// duplicates collapse, order of first appearance is kept.
func DeriveKeywords(description string) []string {
	var (
		out     []string
		seen    = make(map[string]struct{})
		current strings.Builder
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := strings.Trim(current.String(), "-")
		current.Reset()
		if len([]rune(word)) < 3 {
			return
		}
		if _, stop := derivationStops[word]; stop {
			return
		}
		if _, dup := seen[word]; dup {
			return
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}

	for _, r := range description {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return out
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		norm := strings.ToLower(strings.TrimSpace(kw))
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func copyLevels(levels []Level) []Level {
	out := make([]Level, len(levels))
	for i, lvl := range levels {
		out[i] = copyLevel(lvl)
	}
	return out
}

func copyLevel(lvl Level) Level {
	cats := make([]Category, len(lvl.Categories))
	for i, cat := range lvl.Categories {
		kws := make([]string, len(cat.Keywords))
		copy(kws, cat.Keywords)
		cats[i] = Category{Name: cat.Name, Description: cat.Description, Keywords: kws}
	}
	cp := Level{Name: lvl.Name, Default: lvl.Default, Categories: cats}
	if lvl.Branch != nil {
		rules := make([]BranchPredicate, len(lvl.Branch.Rules))
		for i, rule := range lvl.Branch.Rules {
			kws := make([]string, len(rule.Keywords))
			copy(kws, rule.Keywords)
			rules[i] = BranchPredicate{Keywords: kws, Label: rule.Label}
		}
		cp.Branch = &BranchRule{Parent: lvl.Branch.Parent, Score: lvl.Branch.Score, Rules: rules}
	}
	return cp
}
