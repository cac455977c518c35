// Package corpusio reads and writes the JSON documents exchanged with the
// acquisition and visualization collaborators: entity arrays in, the same
// arrays augmented with classification and cluster fields out.
package corpusio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/robotaxa/robotaxa/pkg/robotaxa"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/remote"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/summary"
)

// LoadEntities reads a JSON array of entity records. Leading BOM and
// surrounding whitespace are tolerated; anything that is not an array is an
// error — these are operator files, not scraped noise.
func LoadEntities(path string) ([]robotaxa.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entities %s: %w", path, err)
	}
	data = normalize(data)

	var entities []robotaxa.Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("parse entities %s: expected a JSON array: %w", path, err)
	}
	return entities, nil
}

// SaveCorpus writes the classified entities as a JSON array, each record
// carrying its classification and, when set, its cluster id. All scores
// survive a round trip through LoadCorpus unchanged.
func SaveCorpus(path string, corpus robotaxa.Corpus) error {
	return writeJSON(path, corpus.Entities)
}

// LoadCorpus reads a classified-entity array back.
func LoadCorpus(path string) (robotaxa.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return robotaxa.Corpus{}, fmt.Errorf("read corpus %s: %w", path, err)
	}
	data = normalize(data)

	var entities []robotaxa.ClassifiedEntity
	if err := json.Unmarshal(data, &entities); err != nil {
		return robotaxa.Corpus{}, fmt.Errorf("parse corpus %s: expected a JSON array: %w", path, err)
	}
	return robotaxa.Corpus{Entities: entities}, nil
}

// SaveRemote writes remote classification results: the exact ten-field
// documents for successes, error objects for failures.
func SaveRemote(path string, results []remote.Result) error {
	docs := make([]any, len(results))
	for i, res := range results {
		if res.Failure != nil {
			docs[i] = res.Failure
			continue
		}
		docs[i] = res.Classification
	}
	return writeJSON(path, docs)
}

// SaveReport writes the distribution report document.
func SaveReport(path string, report summary.Report) error {
	return writeJSON(path, report)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func normalize(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return bytes.TrimSpace(data)
}
