package corpusio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/robotaxa/robotaxa/pkg/robotaxa"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/remote"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadEntities(t *testing.T) {
	path := writeFile(t, "robots.json", []byte(`[
  {"name": "IRB 120", "category": "Industrial", "applications": ["assembly"]},
  {"name": "Spot", "description": "legged robot"}
]`))

	entities, err := LoadEntities(path)
	if err != nil {
		t.Fatalf("LoadEntities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(entities))
	}
	if entities[0].Name != "IRB 120" || entities[0].Applications[0] != "assembly" {
		t.Errorf("first entity = %+v", entities[0])
	}
	if entities[1].Description != "legged robot" {
		t.Errorf("second entity = %+v", entities[1])
	}
}

func TestLoadEntitiesToleratesBOMAndWhitespace(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("\n  [{\"name\": \"Spot\"}]  \n")...)
	path := writeFile(t, "bom.json", data)

	entities, err := LoadEntities(path)
	if err != nil {
		t.Fatalf("LoadEntities: %v", err)
	}
	if len(entities) != 1 || entities[0].Name != "Spot" {
		t.Errorf("entities = %+v", entities)
	}
}

func TestLoadEntitiesRejectsNonArray(t *testing.T) {
	path := writeFile(t, "object.json", []byte(`{"name": "Spot"}`))

	if _, err := LoadEntities(path); err == nil {
		t.Error("object document did not error")
	}
}

func TestCorpusRoundTrip(t *testing.T) {
	two := 2
	corpus := robotaxa.Corpus{
		RunID: "run-1",
		Entities: []robotaxa.ClassifiedEntity{
			{
				Entity: robotaxa.Entity{Name: "IRB 120", Category: "Industrial"},
				Classification: robotaxa.Classification{
					"Kingdom": {"Industrial": 0.8},
					"Species": {"Assembly": 0.8, "Inspection": 0.8},
				},
				Cluster: &two,
			},
			{
				Entity:         robotaxa.Entity{Name: "Spot"},
				Classification: robotaxa.Classification{"Phylum": {"Mobile": 0.8, "Mobile.Legged": 0.7}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := SaveCorpus(path, corpus); err != nil {
		t.Fatalf("SaveCorpus: %v", err)
	}

	loaded, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if !reflect.DeepEqual(loaded.Entities, corpus.Entities) {
		t.Errorf("round trip changed entities:\n got %+v\nwant %+v", loaded.Entities, corpus.Entities)
	}
}

func TestSaveRemoteMixesSuccessesAndFailures(t *testing.T) {
	results := []remote.Result{
		{Classification: &remote.Classification{
			Name:               "IRB 120",
			URL:                "https://example.com/irb120",
			Domain:             "Physical",
			Kingdom:            "Industrial",
			MorphoMotionClass:  "Stationary",
			Order:              "Autonomous",
			SensingFamily:      "Vision-Based",
			ActuationGenus:     "Electric",
			CognitionClass:     "Rule-Based",
			ApplicationSpecies: []string{"Assembly"},
		}},
		{Failure: &remote.Failure{Message: "malformed response", RawResponse: "not json"}},
	}

	path := filepath.Join(t.TempDir(), "remote.json")
	if err := SaveRemote(path, results); err != nil {
		t.Fatalf("SaveRemote: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0]["kingdom"] != "Industrial" {
		t.Errorf("success doc = %v", docs[0])
	}
	if docs[1]["error"] != "malformed response" || docs[1]["raw_response"] != "not json" {
		t.Errorf("failure doc = %v", docs[1])
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output missing trailing newline")
	}
}
