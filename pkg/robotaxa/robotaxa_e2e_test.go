package robotaxa

import (
	"context"
	"testing"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/store/memstore"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/summary"
)

// TestEndToEnd demonstrates the complete pipeline:
// 1. Engine assembly
// 2. Corpus classification
// 3. Clustering
// 4. Distribution reporting
// 5. Persistence and reload
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	// === Phase 1: Assemble Engine ===

	engine := New(Options{
		Store:       memstore.New(),
		ClusterK:    2,
		ClusterSeed: 42,
	})
	defer engine.Close()

	entities := []Entity{
		{
			Name:         "KUKA KR 6",
			Description:  "Industrial robotic arm for welding and assembly on the factory floor",
			Category:     "Industrial",
			Manufacturer: "KUKA",
			Applications: []string{"welding", "assembly"},
		},
		{
			Name:        "UR5e",
			Description: "Collaborative industrial arm for assembly and pick and place, factory mounted",
			Category:    "Industrial",
		},
		{
			Name:        "Husky UGV",
			Description: "Rugged wheeled mobile platform that can drive outdoors with gps and lidar",
			Category:    "Mobile",
		},
		{
			Name:        "TurtleBot",
			Description: "Small wheeled mobile research robot that can drive and navigate indoors",
			Category:    "Research",
		},
	}

	// === Phase 2: Classify Corpus ===

	corpus, err := engine.ClassifyAll(ctx, entities)
	if err != nil {
		t.Fatalf("Failed to classify corpus: %v", err)
	}

	t.Logf("✓ Classified %d entities under run %s", len(corpus.Entities), corpus.RunID)

	for i, ent := range corpus.Entities {
		if len(ent.Classification) != len(engine.Taxonomy().Levels()) {
			t.Errorf("entity %d: classified %d levels, want %d",
				i, len(ent.Classification), len(engine.Taxonomy().Levels()))
		}
	}

	if _, ok := corpus.Entities[0].Classification["Kingdom"]["Industrial"]; !ok {
		t.Error("welding arm should score Kingdom/Industrial")
	}
	if _, ok := corpus.Entities[2].Classification["Phylum"]["Mobile.Wheeled"]; !ok {
		t.Error("wheeled platform should refine to Phylum/Mobile.Wheeled")
	}

	// === Phase 3: Cluster Corpus ===

	assignment, err := engine.Cluster(ctx, &corpus, 0)
	if err != nil {
		t.Fatalf("Failed to cluster corpus: %v", err)
	}

	t.Logf("✓ Clustered into k=%d over %d vocabulary terms", assignment.K, len(assignment.Terms))

	if assignment.K != 2 {
		t.Errorf("k = %d, want configured default 2", assignment.K)
	}
	// The two arms talk about assembly, the two platforms about driving.
	if assignment.Labels[0] != assignment.Labels[1] {
		t.Errorf("arms split across clusters: %v", assignment.Labels)
	}
	if assignment.Labels[2] != assignment.Labels[3] {
		t.Errorf("platforms split across clusters: %v", assignment.Labels)
	}
	if assignment.Labels[0] == assignment.Labels[2] {
		t.Errorf("arms and platforms share a cluster: %v", assignment.Labels)
	}

	// === Phase 4: Summarize ===

	report := engine.Summarize(corpus)

	t.Logf("✓ Report covers %d entities across %d levels", report.TotalEntities, len(report.Counts))

	if got := report.Count("Kingdom", "Industrial"); got != 2 {
		t.Errorf("Kingdom/Industrial = %d, want 2", got)
	}
	if got := report.Count("Phylum", "Mobile.Wheeled"); got != 2 {
		t.Errorf("Phylum/Mobile.Wheeled = %d, want 2", got)
	}

	// === Phase 5: Persist and Reload ===

	if err := engine.Persist(ctx, corpus); err != nil {
		t.Fatalf("Failed to persist corpus: %v", err)
	}
	if err := engine.PersistReport(ctx, corpus.RunID, report); err != nil {
		t.Fatalf("Failed to persist report: %v", err)
	}

	loaded, err := engine.LoadCorpus(ctx, "")
	if err != nil {
		t.Fatalf("Failed to reload corpus: %v", err)
	}

	t.Logf("✓ Reloaded run %s with %d entities", loaded.RunID, len(loaded.Entities))

	if loaded.RunID != corpus.RunID {
		t.Errorf("reloaded run = %s, want %s", loaded.RunID, corpus.RunID)
	}
	reloadedReport := engine.Summarize(loaded)
	if !reportsEqual(report, reloadedReport) {
		t.Error("report changed across persistence round trip")
	}
}

func reportsEqual(a, b summary.Report) bool {
	if a.TotalEntities != b.TotalEntities || len(a.Counts) != len(b.Counts) {
		return false
	}
	for level, cats := range a.Counts {
		other := b.Counts[level]
		if len(other) != len(cats) {
			return false
		}
		for cat, n := range cats {
			if other[cat] != n {
				return false
			}
		}
	}
	return true
}
