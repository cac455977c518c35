package taxonomy

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// Load reads a taxonomy document and assembles a Definition against the
// embedded scheme. The document is markdown: a heading naming a level opens
// that level's section, and lines of the form
//
//	**Category**: description
//
// define its categories. Levels the document does not cover, and any document
// that cannot be read or produces an invalid scheme, fall back to the embedded
// defaults with a logged warning. Load never fails.
func Load(path string, logger *zap.Logger) *Definition {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("taxonomy document unreadable, using embedded defaults",
			zap.String("path", path), zap.Error(err))
		return Default()
	}

	sections := parseSections(string(data))
	embedded := DefaultLevels()

	customized := false
	levels := make([]Level, 0, len(embedded))
	for _, def := range embedded {
		docCats, ok := sections[def.Name]
		if !ok || len(docCats) == 0 {
			if !ok {
				logger.Warn("taxonomy document missing level, using embedded categories",
					zap.String("level", def.Name))
			}
			levels = append(levels, def)
			continue
		}
		customized = true
		levels = append(levels, mergeLevel(def, docCats, logger))
	}

	version := DefaultVersion
	if customized {
		version = DefaultVersion + "+custom"
	}

	built, err := New(version, levels)
	if err != nil {
		logger.Warn("taxonomy document produced an invalid scheme, using embedded defaults",
			zap.String("path", path), zap.Error(err))
		return Default()
	}
	return built
}

// mergeLevel builds one level from document categories: curated keywords are
// carried over for category names the embedded scheme knows, the fallback
// category is re-added when the document dropped it, and the branch rule
// survives as long as its parent category does.
func mergeLevel(def Level, docCats []Category, logger *zap.Logger) Level {
	curated := make(map[string]Category, len(def.Categories))
	for _, cat := range def.Categories {
		curated[strings.ToLower(cat.Name)] = cat
	}

	out := Level{Name: def.Name, Default: def.Default}
	haveDefault := false
	haveParent := false
	for _, doc := range docCats {
		cat := Category{Name: doc.Name, Description: doc.Description}
		if known, ok := curated[strings.ToLower(doc.Name)]; ok {
			cat.Name = known.Name
			cat.Keywords = known.Keywords
			if cat.Description == "" {
				cat.Description = known.Description
			}
		}
		if cat.Name == def.Default {
			haveDefault = true
		}
		if def.Branch != nil && cat.Name == def.Branch.Parent {
			haveParent = true
		}
		out.Categories = append(out.Categories, cat)
	}

	if !haveDefault {
		logger.Warn("taxonomy document omits the level fallback category, re-adding it",
			zap.String("level", def.Name), zap.String("category", def.Default))
		if known, ok := curated[strings.ToLower(def.Default)]; ok {
			out.Categories = append(out.Categories, known)
		} else {
			out.Categories = append(out.Categories, Category{Name: def.Default})
		}
	}

	// The fallback category is always present by now, so a branch whose
	// parent is the fallback always survives.
	if def.Branch != nil {
		if haveParent || def.Branch.Parent == def.Default {
			out.Branch = def.Branch
		} else {
			logger.Warn("taxonomy document drops branch parent category, branch disabled",
				zap.String("level", def.Name), zap.String("parent", def.Branch.Parent))
		}
	}

	return out
}

// parseSections splits the document into level → categories. Level names are
// matched as whole words inside headings, so "### 2. Kingdom — domains" opens
// the Kingdom section.
func parseSections(doc string) map[string][]Category {
	known := make(map[string]string)
	for _, lvl := range DefaultLevels() {
		known[strings.ToLower(lvl.Name)] = lvl.Name
	}

	sections := make(map[string][]Category)
	current := ""
	for _, raw := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			current = headingLevel(line, known)
			continue
		}
		if current == "" {
			continue
		}
		if name, desc, ok := parseEntry(line); ok {
			sections[current] = append(sections[current], Category{Name: name, Description: desc})
		}
	}
	return sections
}

func headingLevel(line string, known map[string]string) string {
	text := strings.ToLower(strings.TrimLeft(line, "# "))
	for _, field := range strings.Fields(text) {
		word := strings.Trim(field, ".,:;()[]{}«»\"'-—–")
		if canonical, ok := known[word]; ok {
			return canonical
		}
	}
	return ""
}

// parseEntry recognizes "**Category**: description" lines.
func parseEntry(line string) (name, desc string, ok bool) {
	if !strings.HasPrefix(line, "**") {
		return "", "", false
	}
	rest := line[2:]
	idx := strings.Index(rest, "**:")
	if idx <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(rest[:idx])
	desc = strings.TrimSpace(rest[idx+3:])
	if name == "" {
		return "", "", false
	}
	return name, desc, true
}
