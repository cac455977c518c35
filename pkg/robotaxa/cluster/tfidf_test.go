package cluster

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"testing"
)

func TestTokenizeDropsStopwordsAndNoise(t *testing.T) {
	got := tokenize("The IRB-120 is an arm for 2024 assembly!")
	want := []string{"irb-120", "arm", "assembly"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}

func TestFitVocabularyIsDeterministic(t *testing.T) {
	v := NewVectorizer(0)
	docs := []string{
		"welding arm factory",
		"factory assembly line",
		"surgical theater robot",
	}

	first, _ := v.Fit(docs)
	second, _ := v.Fit(docs)
	if !reflect.DeepEqual(first.Terms, second.Terms) {
		t.Errorf("vocabulary diverged: %v != %v", first.Terms, second.Terms)
	}
	if !sort.StringsAreSorted(first.Terms) {
		t.Errorf("vocabulary not in index order: %v", first.Terms)
	}
}

func TestFitCapsVocabularyByCollectionFrequency(t *testing.T) {
	v := NewVectorizer(2)

	// "alpha" appears three times, "beta" twice, "gamma" once.
	docs := []string{"alpha beta", "alpha beta", "alpha gamma"}

	model, _ := v.Fit(docs)
	want := []string{"alpha", "beta"}
	if !reflect.DeepEqual(model.Terms, want) {
		t.Errorf("capped vocabulary = %v, want %v", model.Terms, want)
	}
}

func TestFitExcludesStopwords(t *testing.T) {
	v := NewVectorizer(0)
	model, _ := v.Fit([]string{"the robot and the arm", "a robot with the gripper"})

	for _, term := range model.Terms {
		if IsStopword(term) {
			t.Errorf("stopword %q in vocabulary", term)
		}
	}
}

func TestFitVectorsAreL2Normalized(t *testing.T) {
	v := NewVectorizer(0)
	_, vectors := v.Fit([]string{
		"welding arm factory assembly",
		"surgical theater",
	})

	for i, vec := range vectors {
		var norm float64
		for _, val := range vec {
			norm += val * val
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
			t.Errorf("vector %d norm = %v, want 1", i, math.Sqrt(norm))
		}
	}
}

func TestFitDocumentWithNoVocabularyTermsIsZero(t *testing.T) {
	v := NewVectorizer(0)
	_, vectors := v.Fit([]string{"welding arm", "the and of"})

	for _, val := range vectors[1] {
		if val != 0 {
			t.Fatalf("stopword-only document produced non-zero vector: %v", vectors[1])
		}
	}
}

func TestFitRareTermsWeighHigher(t *testing.T) {
	v := NewVectorizer(0)

	docs := make([]string, 10)
	for i := range docs {
		docs[i] = "robot common"
	}
	docs[0] = fmt.Sprintf("%s unique", docs[0])

	model, vectors := v.Fit(docs)

	idx := map[string]int{}
	for i, term := range model.Terms {
		idx[term] = i
	}
	vec := vectors[0]
	if vec[idx["unique"]] <= vec[idx["common"]] {
		t.Errorf("unique weight %v not above common weight %v", vec[idx["unique"]], vec[idx["common"]])
	}
}
