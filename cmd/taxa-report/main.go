// Command taxa-report recomputes and prints the per-level distribution
// report from a stored classification run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/store"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store/sqlite"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/summary"
)

func main() {
	var (
		dbPath = flag.String("db", "", "SQLite database path (required)")
		runID  = flag.String("run", "", "Run id (defaults to the latest run)")
		asJSON = flag.Bool("json", false, "Emit the report as JSON")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	id := *runID
	if id == "" {
		run, ok, err := st.LatestRun(ctx)
		if err != nil {
			log.Fatalf("find latest run: %v", err)
		}
		if !ok {
			log.Fatal("no runs stored")
		}
		id = run.ID
	}

	run, records, err := st.GetRun(ctx, id)
	if err != nil {
		log.Fatalf("load run: %v", err)
	}

	agg := summary.NewAggregator()
	for _, rec := range records {
		agg.Add(rec.Scores)
	}
	report := agg.Report()

	if *asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("marshal report: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("run %s (taxonomy %s): %d robots\n", run.ID, run.TaxonomyVersion, report.TotalEntities)
	printCounts(report, records)
}

func printCounts(report summary.Report, records []store.Record) {
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

	clustered := 0
	for _, rec := range records {
		if rec.Cluster != nil {
			clustered++
		}
	}
	if clustered > 0 {
		fmt.Printf("clustered: %d of %d\n", clustered, len(records))
	}
}
