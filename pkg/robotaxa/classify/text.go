package classify

import (
	"strings"

	"golang.org/x/net/html"
)

// Source holds the text-bearing fields of a device record. Fields may be
// empty; absent fields simply contribute nothing to the matching text.
type Source struct {
	Name         string
	Description  string
	Category     string
	Applications []string
}

// ExtractText builds the lowercase matching text for a record: name,
// description, applications and category joined with single spaces. Scraped
// descriptions often carry markup, so tags are stripped before joining. The
// result is lowercased exactly once; every level matches against the same
// string.
func ExtractText(src Source) string {
	parts := make([]string, 0, 3+len(src.Applications))
	if src.Name != "" {
		parts = append(parts, src.Name)
	}
	if src.Description != "" {
		parts = append(parts, stripHTML(src.Description))
	}
	for _, app := range src.Applications {
		if app != "" {
			parts = append(parts, app)
		}
	}
	if src.Category != "" {
		parts = append(parts, src.Category)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
