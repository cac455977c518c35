package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Taxonomy.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestLoadUnreadableFileFallsBackToDefault(t *testing.T) {
	def := Load(filepath.Join(t.TempDir(), "missing.md"), zap.NewNop())

	if def.Version() != DefaultVersion {
		t.Errorf("version = %q, want %q", def.Version(), DefaultVersion)
	}
	if len(def.Levels()) != 8 {
		t.Errorf("levels = %d, want 8", len(def.Levels()))
	}
}

func TestLoadParsesLevelSections(t *testing.T) {
	path := writeDoc(t, `# Robot Taxonomy

## 2. Kingdom — application domains

**Industrial**: machines for factory and manufacturing work
**Gardening**: robots that trim hedges and mow lawns
`)

	def := Load(path, zap.NewNop())

	kingdom, ok := def.Level(LevelKingdom)
	if !ok {
		t.Fatal("Kingdom level missing")
	}

	names := make(map[string]bool, len(kingdom.Categories))
	for _, cat := range kingdom.Categories {
		names[cat.Name] = true
	}
	if !names["Industrial"] || !names["Gardening"] {
		t.Errorf("Kingdom categories = %v, want Industrial and Gardening", names)
	}
	// The fallback category survives even when the document drops it.
	if !names["Service"] {
		t.Errorf("Kingdom lost its fallback category: %v", names)
	}

	if def.Version() == DefaultVersion {
		t.Error("customized taxonomy kept the embedded version string")
	}
}

func TestLoadKnownCategoryKeepsCuratedKeywords(t *testing.T) {
	path := writeDoc(t, `## Kingdom

**Industrial**: a rewritten description with unrelated words
`)

	def := Load(path, zap.NewNop())

	triggers := def.Keywords().Triggers(LevelKingdom, "Industrial")
	found := false
	for _, kw := range triggers {
		if kw == "welding" {
			found = true
		}
	}
	if !found {
		t.Errorf("Industrial triggers = %v, want the curated list, not derived tokens", triggers)
	}
}

func TestLoadUnknownCategoryDerivesKeywordsFromDescription(t *testing.T) {
	path := writeDoc(t, `## Kingdom

**Gardening**: trims hedges and mows lawns
`)

	def := Load(path, zap.NewNop())

	triggers := def.Keywords().Triggers(LevelKingdom, "Gardening")
	want := map[string]bool{"trims": true, "hedges": true, "mows": true, "lawns": true}
	for _, kw := range triggers {
		delete(want, kw)
	}
	if len(want) != 0 {
		t.Errorf("Gardening triggers = %v, missing %v", triggers, want)
	}
}

func TestLoadMissingLevelUsesEmbeddedCategories(t *testing.T) {
	path := writeDoc(t, `## Kingdom

**Industrial**: factory machines
`)

	def := Load(path, zap.NewNop())

	phylum, ok := def.Level(LevelPhylum)
	if !ok {
		t.Fatal("Phylum level missing")
	}
	if len(phylum.Categories) != 2 || phylum.Branch == nil {
		t.Errorf("Phylum did not fall back to embedded defaults: %+v", phylum)
	}
}

func TestLoadBranchDisabledWhenParentDropped(t *testing.T) {
	path := writeDoc(t, `## Phylum

**Stationary**: fixed in place
**Floating**: drifts on water
`)

	def := Load(path, zap.NewNop())

	phylum, ok := def.Level(LevelPhylum)
	if !ok {
		t.Fatal("Phylum level missing")
	}
	// The fallback category is Mobile, which is also the branch parent, so
	// it is re-added and the branch survives.
	if phylum.Branch == nil {
		t.Error("branch dropped although its parent is the re-added fallback")
	}
}

func TestLoadIgnoresNonEntryLines(t *testing.T) {
	path := writeDoc(t, `## Kingdom

Some prose about the level.
- a bullet that is not an entry
**Industrial**: factory machines
`)

	def := Load(path, zap.NewNop())

	kingdom, _ := def.Level(LevelKingdom)
	for _, cat := range kingdom.Categories {
		if cat.Name == "Some prose about the level." {
			t.Errorf("prose line parsed as category: %+v", kingdom.Categories)
		}
	}
}
