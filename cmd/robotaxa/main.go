// Command robotaxa runs the batch pipeline: classify a JSON array of robot
// records, optionally cluster the corpus, summarize the distribution, and
// write the augmented records back out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/robotaxa/robotaxa/internal/corpusio"
	"github.com/robotaxa/robotaxa/internal/logging"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/config"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/summary"
)

func main() {
	var (
		input      = flag.String("input", "", "Input JSON array of robot records (required)")
		output     = flag.String("output", "", "Output path for classified records (optional)")
		reportPath = flag.String("report", "", "Output path for the distribution report (optional)")
		configPath = flag.String("config", "", "Engine config YAML (optional)")
		mode       = flag.String("mode", "full", "Pipeline mode: classify, cluster, or full")
		taxonomy   = flag.String("taxonomy", "", "Taxonomy markdown document (overrides config)")
		k          = flag.Int("k", 0, "Cluster count (overrides config)")
		seed       = flag.Int64("seed", 0, "Cluster seed (overrides config)")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	switch *mode {
	case "classify", "cluster", "full":
	default:
		log.Fatalf("unknown --mode %q (want classify, cluster, or full)", *mode)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *taxonomy != "" {
		cfg.Taxonomy.Path = *taxonomy
	}
	if *k > 0 {
		cfg.Cluster.K = *k
	}
	if *seed != 0 {
		cfg.Cluster.Seed = *seed
	}

	logger, err := logging.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	loader := config.Loader{Config: cfg, Logger: logger}
	engine, err := loader.Build(ctx)
	if err != nil {
		log.Fatalf("assemble engine: %v", err)
	}
	defer engine.Close()

	entities, err := corpusio.LoadEntities(*input)
	if err != nil {
		log.Fatalf("load input: %v", err)
	}

	corpus, err := engine.ClassifyAll(ctx, entities)
	if err != nil {
		log.Fatalf("classify: %v", err)
	}

	if *mode == "cluster" || *mode == "full" {
		if _, err := engine.Cluster(ctx, &corpus, cfg.Cluster.K); err != nil {
			log.Fatalf("cluster: %v", err)
		}
	}

	report := engine.Summarize(corpus)

	if err := engine.Persist(ctx, corpus); err != nil {
		log.Fatalf("persist corpus: %v", err)
	}
	if err := engine.PersistReport(ctx, corpus.RunID, report); err != nil {
		log.Fatalf("persist report: %v", err)
	}

	if *output != "" {
		if err := corpusio.SaveCorpus(*output, corpus); err != nil {
			log.Fatalf("write output: %v", err)
		}
	}
	if *reportPath != "" {
		if err := corpusio.SaveReport(*reportPath, report); err != nil {
			log.Fatalf("write report: %v", err)
		}
	}

	printDistribution(report)
}

// printDistribution prints per-level category counts, largest first.
func printDistribution(report summary.Report) {
	fmt.Printf("classified %d robots\n", report.TotalEntities)

	levels := make([]string, 0, len(report.Counts))
	for level := range report.Counts {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	for _, level := range levels {
		cats := report.Counts[level]
		names := make([]string, 0, len(cats))
		for name := range cats {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if cats[names[i]] != cats[names[j]] {
				return cats[names[i]] > cats[names[j]]
			}
			return names[i] < names[j]
		})

		fmt.Printf("%s:\n", level)
		for _, name := range names {
			fmt.Printf("  %-28s %d\n", name, cats[name])
		}
	}
}
