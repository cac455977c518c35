package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/internalerr"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(id string, created time.Time) (store.Run, []store.Record) {
	cluster := 1
	return store.Run{
			ID:              id,
			CreatedAt:       created,
			TaxonomyVersion: "tol-2.0",
		}, []store.Record{
			{
				Position:     0,
				Name:         "IRB120",
				URL:          "https://example.com/irb120",
				Description:  "industrial assembly arm",
				Category:     "Manipulator",
				Manufacturer: "ABB",
				Applications: []string{"Assembly", "Welding"},
				Scores: map[string]map[string]float64{
					"Kingdom": {"Industrial": 0.8},
					"Phylum":  {"Stationary": 0.8},
				},
				Cluster: &cluster,
			},
			{
				Position: 1,
				Name:     "Mystery",
				Scores: map[string]map[string]float64{
					"Kingdom": {"Service": 0.5},
				},
			},
		}
}

func TestSaveAndGetRunRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run, records := sampleRun("run-1", created)

	if err := st.SaveRun(ctx, run, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	gotRun, gotRecords, err := st.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if gotRun.ID != run.ID || gotRun.TaxonomyVersion != run.TaxonomyVersion {
		t.Errorf("run = %+v, want %+v", gotRun, run)
	}
	if !gotRun.CreatedAt.Equal(created) {
		t.Errorf("created = %v, want %v", gotRun.CreatedAt, created)
	}
	if len(gotRecords) != len(records) {
		t.Fatalf("records = %d, want %d", len(gotRecords), len(records))
	}
	for i, want := range records {
		got := gotRecords[i]
		if got.Position != want.Position || got.Name != want.Name || got.URL != want.URL ||
			got.Description != want.Description || got.Category != want.Category ||
			got.Manufacturer != want.Manufacturer {
			t.Errorf("record %d = %+v, want %+v", i, got, want)
		}
		if !reflect.DeepEqual(got.Scores, want.Scores) {
			t.Errorf("record %d scores = %v, want %v", i, got.Scores, want.Scores)
		}
		if (got.Cluster == nil) != (want.Cluster == nil) {
			t.Errorf("record %d cluster presence mismatch", i)
		} else if got.Cluster != nil && *got.Cluster != *want.Cluster {
			t.Errorf("record %d cluster = %d, want %d", i, *got.Cluster, *want.Cluster)
		}
	}
	if !reflect.DeepEqual(gotRecords[0].Applications, records[0].Applications) {
		t.Errorf("applications = %v, want %v", gotRecords[0].Applications, records[0].Applications)
	}
}

func TestGetRunPreservesInsertionOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	records := make([]store.Record, 20)
	for i := range records {
		records[i] = store.Record{
			Position: i,
			Name:     string(rune('z' - i)),
			Scores:   map[string]map[string]float64{"Kingdom": {"Service": 0.5}},
		}
	}
	run := store.Run{ID: "run-ordered", CreatedAt: time.Now(), TaxonomyVersion: "tol-2.0"}
	if err := st.SaveRun(ctx, run, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	_, got, err := st.GetRun(ctx, "run-ordered")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	for i, rec := range got {
		if rec.Position != i {
			t.Fatalf("record %d has position %d", i, rec.Position)
		}
	}
}

func TestSaveRunReplacesPriorContent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run, records := sampleRun("run-1", time.Now())
	if err := st.SaveRun(ctx, run, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := st.SaveRun(ctx, run, records[:1]); err != nil {
		t.Fatalf("SaveRun again: %v", err)
	}

	_, got, err := st.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("records = %d, want 1 after replacement", len(got))
	}
}

func TestLatestRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.LatestRun(ctx); err != nil || ok {
		t.Fatalf("LatestRun on empty db = ok %v err %v, want false nil", ok, err)
	}

	older, records := sampleRun("run-old", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer, _ := sampleRun("run-new", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := st.SaveRun(ctx, older, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := st.SaveRun(ctx, newer, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, ok, err := st.LatestRun(ctx)
	if err != nil || !ok {
		t.Fatalf("LatestRun = ok %v err %v", ok, err)
	}
	if got.ID != "run-new" {
		t.Errorf("latest = %q, want run-new", got.ID)
	}
}

func TestRunNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, _, err := st.GetRun(context.Background(), "ghost"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReports(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run, records := sampleRun("run-1", time.Now())
	if err := st.SaveRun(ctx, run, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	counts := map[string]map[string]int{
		"Kingdom": {"Industrial": 3, "Service": 1},
		"Phylum":  {"Mobile": 4},
	}
	if err := st.SaveReport(ctx, "run-1", counts); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := st.GetReport(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if !reflect.DeepEqual(got, counts) {
		t.Errorf("report = %v, want %v", got, counts)
	}

	if err := st.SaveReport(ctx, "ghost", counts); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("SaveReport unknown run: err = %v, want ErrNotFound", err)
	}
	if _, err := st.GetReport(ctx, "ghost"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetReport unknown run: err = %v, want ErrNotFound", err)
	}
}
