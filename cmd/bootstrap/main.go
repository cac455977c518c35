// Command bootstrap writes the embedded defaults to a directory as editable
// operator files: the taxonomy document, a starter engine config, and the
// clustering stopword list.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/cluster"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/config"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/taxonomy"
)

func main() {
	dir := flag.String("dir", ".", "Directory to write the bootstrap files into")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create directory: %v", err)
	}

	taxonomyPath := filepath.Join(*dir, "Taxonomy.md")
	if err := os.WriteFile(taxonomyPath, []byte(renderTaxonomy()), 0o644); err != nil {
		log.Fatalf("write taxonomy: %v", err)
	}

	configPath := filepath.Join(*dir, "robotaxa.yaml")
	if err := writeConfig(configPath, taxonomyPath); err != nil {
		log.Fatalf("write config: %v", err)
	}

	stopwordsPath := filepath.Join(*dir, "stopwords.txt")
	stops := strings.Join(cluster.Stopwords(), "\n") + "\n"
	if err := os.WriteFile(stopwordsPath, []byte(stops), 0o644); err != nil {
		log.Fatalf("write stopwords: %v", err)
	}

	fmt.Printf("wrote %s, %s, %s\n", taxonomyPath, configPath, stopwordsPath)
}

// renderTaxonomy emits the embedded scheme in the document format Load
// parses: a heading per level, "**Category**: description" entries.
func renderTaxonomy() string {
	var b strings.Builder
	b.WriteString("# Robot Taxonomy\n\n")
	b.WriteString("Edit categories and descriptions below, then point the engine at this file.\n")
	b.WriteString("Levels you remove fall back to the embedded defaults.\n")

	for i, lvl := range taxonomy.DefaultLevels() {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, lvl.Name)
		for _, cat := range lvl.Categories {
			fmt.Fprintf(&b, "**%s**: %s\n", cat.Name, cat.Description)
		}
	}
	return b.String()
}

func writeConfig(path, taxonomyPath string) error {
	cfg := config.Default()
	cfg.Taxonomy.Path = taxonomyPath
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.Path = "robotaxa.db"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
