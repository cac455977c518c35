// Package robotaxa classifies free-text robot records against a hierarchical
// taxonomy, groups corpora by textual similarity, and aggregates per-level
// category distributions.
package robotaxa

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/classify"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/cluster"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/internalerr"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/summary"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/taxonomy"
)

// Entity is one input record. Every field is optional; absent fields simply
// contribute nothing to classification. JSON tags match the acquisition
// collaborator's document.
type Entity struct {
	Name           string            `json:"name,omitempty"`
	URL            string            `json:"url,omitempty"`
	Description    string            `json:"description,omitempty"`
	Category       string            `json:"category,omitempty"`
	Manufacturer   string            `json:"manufacturer,omitempty"`
	Year           string            `json:"year,omitempty"`
	Applications   []string          `json:"applications,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// TextSource exposes the text-bearing fields classification matches against.
func (e Entity) TextSource() classify.Source {
	return classify.Source{
		Name:         e.Name,
		Description:  e.Description,
		Category:     e.Category,
		Applications: e.Applications,
	}
}

// clusterDoc is the document clustering vectorizes for this entity.
func (e Entity) clusterDoc() string {
	return e.Description + " " + e.Name
}

// Classification maps level name → category name → confidence score.
type Classification = classify.Classification

// ClassifiedEntity is an entity with its classification attached and, after a
// clustering pass, its cluster id.
type ClassifiedEntity struct {
	Entity
	Classification Classification `json:"classification,omitempty"`
	Cluster        *int           `json:"cluster,omitempty"`
}

// Corpus is one classification run: the classified entities in input order
// plus the id of the run that produced them.
type Corpus struct {
	RunID    string
	Entities []ClassifiedEntity
}

// ProfileFailure describes a per-entity classification failure. Message is
// always set; RawResponse carries the unparsed response when one exists.
type ProfileFailure struct {
	Message     string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

// ProfileResult is the outcome of profiling one entity: either per-level
// scores or a structured failure, never both.
type ProfileResult struct {
	Levels  Classification
	Failure *ProfileFailure
}

// Profiler is the capability both classifier implementations share: profile
// one entity, produce a structured classification or a structured failure.
// Implementations never return a Go error per entity; a batch never aborts
// on one bad record.
type Profiler interface {
	Profile(ctx context.Context, e Entity) ProfileResult
}

// RuleProfiler adapts the keyword rule classifier to the Profiler
// capability. It never fails.
type RuleProfiler struct {
	classifier *classify.Classifier
}

// NewRuleProfiler creates a rule-based profiler over the given taxonomy.
// A nil taxonomy uses the embedded defaults.
func NewRuleProfiler(tax *taxonomy.Definition) *RuleProfiler {
	return &RuleProfiler{classifier: classify.NewClassifier(tax)}
}

// Profile implements Profiler.
func (p *RuleProfiler) Profile(ctx context.Context, e Entity) ProfileResult {
	return ProfileResult{Levels: p.classifier.Classify(e.TextSource())}
}

// Options configures an Engine. Zero-value fields fall back to embedded
// defaults: the default taxonomy, the rule-based profiler, the default
// cluster engine, no store, a Nop logger.
type Options struct {
	Taxonomy    *taxonomy.Definition
	Profiler    Profiler
	Clusterer   *cluster.Engine
	Store       store.Store
	Logger      *zap.Logger
	ClusterK    int
	ClusterSeed int64
}

// Engine is the pipeline facade: classify a corpus, cluster it, summarize
// it, persist it.
type Engine struct {
	tax       *taxonomy.Definition
	profiler  Profiler
	clusterer *cluster.Engine
	store     store.Store
	logger    *zap.Logger
	k         int
	seed      int64
	entropy   *ulid.MonotonicEntropy
}

// New assembles an engine from options.
func New(opts Options) *Engine {
	tax := opts.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	profiler := opts.Profiler
	if profiler == nil {
		profiler = NewRuleProfiler(tax)
	}
	clusterer := opts.Clusterer
	if clusterer == nil {
		clusterer = cluster.NewEngine()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	k := opts.ClusterK
	if k <= 0 {
		k = cluster.DefaultK
	}
	seed := opts.ClusterSeed
	if seed == 0 {
		seed = cluster.DefaultSeed
	}
	return &Engine{
		tax:       tax,
		profiler:  profiler,
		clusterer: clusterer,
		store:     opts.Store,
		logger:    logger,
		k:         k,
		seed:      seed,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Close releases the store, if one is configured.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Taxonomy returns the definition the engine classifies against.
func (e *Engine) Taxonomy() *taxonomy.Definition { return e.tax }

// ClassifyAll classifies every entity in input order and returns a fresh
// corpus, replacing any prior corpus state the caller holds. A failed entity
// degrades to the per-level fallback classification instead of aborting the
// batch. Identical entities and taxonomy always produce identical scores.
func (e *Engine) ClassifyAll(ctx context.Context, entities []Entity) (Corpus, error) {
	corpus := Corpus{
		RunID:    ulid.MustNew(ulid.Now(), e.entropy).String(),
		Entities: make([]ClassifiedEntity, len(entities)),
	}

	for i, entity := range entities {
		result := e.profiler.Profile(ctx, entity)
		levels := result.Levels
		if result.Failure != nil {
			e.logger.Warn("entity classification failed, using fallback categories",
				zap.Int("position", i),
				zap.String("name", entity.Name),
				zap.String("error", result.Failure.Message))
			levels = e.fallbackClassification()
		} else {
			levels = e.fillMissingLevels(levels)
		}
		corpus.Entities[i] = ClassifiedEntity{Entity: entity, Classification: levels}
	}

	e.logger.Info("corpus classified",
		zap.String("run_id", corpus.RunID),
		zap.Int("entities", len(entities)),
		zap.String("taxonomy_version", e.tax.Version()))
	return corpus, nil
}

// fallbackClassification scores every level at its fallback category, the
// same outcome an entity with no text at all receives.
func (e *Engine) fallbackClassification() Classification {
	return e.fillMissingLevels(make(Classification))
}

// fillMissingLevels completes a profile that skipped levels — the remote
// classifier drops fields holding its missing sentinel — so every level
// carries at least one scored category.
func (e *Engine) fillMissingLevels(levels Classification) Classification {
	if levels == nil {
		levels = make(Classification)
	}
	for _, lvl := range e.tax.Levels() {
		if len(levels[lvl.Name]) == 0 {
			levels[lvl.Name] = map[string]float64{lvl.Default: classify.FallbackScore}
		}
	}
	return levels
}

// Cluster partitions the corpus into k clusters and annotates every entity
// with its cluster id. k of zero or less uses the configured default. An
// empty corpus returns an empty assignment.
func (e *Engine) Cluster(ctx context.Context, corpus *Corpus, k int) (cluster.Assignment, error) {
	if k <= 0 {
		k = e.k
	}

	docs := make([]string, len(corpus.Entities))
	for i, ent := range corpus.Entities {
		docs[i] = ent.clusterDoc()
	}

	assignment, err := e.clusterer.Cluster(docs, k, e.seed)
	if err != nil {
		return cluster.Assignment{}, fmt.Errorf("cluster corpus: %w", err)
	}

	for i := range corpus.Entities {
		if i < len(assignment.Labels) {
			id := assignment.Labels[i]
			corpus.Entities[i].Cluster = &id
		}
	}

	e.logger.Info("corpus clustered",
		zap.String("run_id", corpus.RunID),
		zap.Int("k", assignment.K),
		zap.Int("vocabulary", len(assignment.Terms)))
	return assignment, nil
}

// Summarize tallies the per-level category distribution of the corpus.
func (e *Engine) Summarize(corpus Corpus) summary.Report {
	agg := summary.NewAggregator()
	for _, ent := range corpus.Entities {
		agg.Add(ent.Classification)
	}
	return agg.Report()
}

// Persist stores the corpus under its run id.
func (e *Engine) Persist(ctx context.Context, corpus Corpus) error {
	if e.store == nil {
		return fmt.Errorf("persist corpus: no store configured: %w", internalerr.ErrStoreUnavailable)
	}

	run := store.Run{
		ID:              corpus.RunID,
		CreatedAt:       time.Now().UTC(),
		TaxonomyVersion: e.tax.Version(),
	}
	records := make([]store.Record, len(corpus.Entities))
	for i, ent := range corpus.Entities {
		records[i] = store.Record{
			Position:     i,
			Name:         ent.Name,
			URL:          ent.URL,
			Description:  ent.Description,
			Category:     ent.Category,
			Manufacturer: ent.Manufacturer,
			Applications: ent.Applications,
			Scores:       ent.Classification,
			Cluster:      ent.Cluster,
		}
	}

	if err := e.store.SaveRun(ctx, run, records); err != nil {
		return fmt.Errorf("persist corpus %s: %w", corpus.RunID, err)
	}
	return nil
}

// PersistReport stores the distribution report under the corpus run id.
func (e *Engine) PersistReport(ctx context.Context, runID string, report summary.Report) error {
	if e.store == nil {
		return fmt.Errorf("persist report: no store configured: %w", internalerr.ErrStoreUnavailable)
	}
	if err := e.store.SaveReport(ctx, runID, report.Counts); err != nil {
		return fmt.Errorf("persist report %s: %w", runID, err)
	}
	return nil
}

// LoadCorpus reads a stored run back as a corpus, in insertion order. An
// empty runID loads the latest run.
func (e *Engine) LoadCorpus(ctx context.Context, runID string) (Corpus, error) {
	if e.store == nil {
		return Corpus{}, fmt.Errorf("load corpus: no store configured: %w", internalerr.ErrStoreUnavailable)
	}

	if runID == "" {
		run, ok, err := e.store.LatestRun(ctx)
		if err != nil {
			return Corpus{}, fmt.Errorf("load latest run: %w", err)
		}
		if !ok {
			return Corpus{}, fmt.Errorf("load corpus: %w", internalerr.ErrNotFound)
		}
		runID = run.ID
	}

	_, records, err := e.store.GetRun(ctx, runID)
	if err != nil {
		return Corpus{}, fmt.Errorf("load corpus %s: %w", runID, err)
	}

	corpus := Corpus{RunID: runID, Entities: make([]ClassifiedEntity, len(records))}
	for i, rec := range records {
		corpus.Entities[i] = ClassifiedEntity{
			Entity: Entity{
				Name:         rec.Name,
				URL:          rec.URL,
				Description:  rec.Description,
				Category:     rec.Category,
				Manufacturer: rec.Manufacturer,
				Applications: rec.Applications,
			},
			Classification: rec.Scores,
			Cluster:        rec.Cluster,
		}
	}
	return corpus, nil
}
