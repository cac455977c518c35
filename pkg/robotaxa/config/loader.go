package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/robotaxa/robotaxa/pkg/robotaxa"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/remote"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store/memstore"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store/sqlite"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/taxonomy"
)

// Loader assembles engine components from a configuration.
type Loader struct {
	Config Config
	Logger *zap.Logger
}

// Build constructs the engine: the taxonomy (document or embedded), the
// configured profiler, the configured store. The caller owns the engine and
// must Close it to release the store.
func (l *Loader) Build(ctx context.Context) (*robotaxa.Engine, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var tax *taxonomy.Definition
	if l.Config.Taxonomy.Path != "" {
		tax = taxonomy.Load(l.Config.Taxonomy.Path, logger)
	} else {
		tax = taxonomy.Default()
	}

	var profiler robotaxa.Profiler
	switch l.Config.Classifier.Mode {
	case ModeRules, "":
		profiler = robotaxa.NewRuleProfiler(tax)
	case ModeModel:
		profiler = remote.New(remote.Config{
			APIKey:  l.Config.Model.APIKey,
			BaseURL: l.Config.Model.BaseURL,
			Model:   l.Config.Model.Name,
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("assemble classifier: unknown mode %q", l.Config.Classifier.Mode)
	}

	var st store.Store
	switch l.Config.Store.Driver {
	case DriverMemory, "":
		st = memstore.New()
	case DriverSQLite:
		var err error
		st, err = sqlite.Open(ctx, l.Config.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	default:
		return nil, fmt.Errorf("assemble store: unknown driver %q", l.Config.Store.Driver)
	}

	return robotaxa.New(robotaxa.Options{
		Taxonomy:    tax,
		Profiler:    profiler,
		Store:       st,
		Logger:      logger,
		ClusterK:    l.Config.Cluster.K,
		ClusterSeed: l.Config.Cluster.Seed,
	}), nil
}
