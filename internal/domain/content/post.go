package content

import (
	"strings"
	"time"
)

// PostMeta is the validated metadata of one source document.
type PostMeta struct {
	// ID is derived from the source filename: "YYYY-MM-DD-slug".
	ID   string
	Slug string

	Title string
	Date  time.Time

	// Categories behave as a set: lowercased, deduplicated, first
	// occurrence wins. Tags keep their (deduplicated) source order.
	Categories []string
	Tags       []string

	// Comments defaults to true when the front matter says nothing.
	Comments bool

	Layout string
}

// Source points back at the file a post was loaded from.
type Source struct {
	Path        string
	ContentHash string
}

type Post struct {
	Meta PostMeta

	// Body is the markdown payload with the front matter stripped. The
	// pipeline never interprets it; only the renderer does.
	Body []byte

	Source Source
}

func (m *PostMeta) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Slug = strings.TrimSpace(m.Slug)

	m.Tags = normalizeStrings(m.Tags)
	m.Categories = normalizeStrings(m.Categories)
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
