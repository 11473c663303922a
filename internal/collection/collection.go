// Package collection assembles validated posts into the build-scoped
// aggregate: a deterministic chronological order plus derived tag and
// category indexes. A Collection lives for one build and is never mutated
// after Assemble returns; indexes are computed views, rebuilt from scratch
// every time.
package collection

import (
	"sort"

	"github.com/trapx25/inkwell/internal/domain/content"
	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

type Collection struct {
	// Posts in chronological order: date descending, identifier ascending
	// on equal dates.
	Posts []content.Post

	// ByTag / ByCategory map a tag or category to post identifiers in
	// chronological order.
	ByTag      map[string][]string
	ByCategory map[string][]string

	byID map[string]int
}

// Assemble builds a Collection from validated posts. Input order is
// irrelevant; the result is total-ordered. Two posts with the same
// identifier abort with a DuplicateIdentifierError.
func Assemble(posts []content.Post) (*Collection, error) {
	sorted := make([]content.Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool {
		return Less(sorted[i].Meta, sorted[j].Meta)
	})

	c := &Collection{
		Posts:      sorted,
		ByTag:      make(map[string][]string),
		ByCategory: make(map[string][]string),
		byID:       make(map[string]int, len(sorted)),
	}

	for i, p := range sorted {
		id := p.Meta.ID
		if prev, ok := c.byID[id]; ok {
			a, b := sorted[prev].Source.Path, p.Source.Path
			if b < a {
				a, b = b, a
			}
			return nil, domainerr.DuplicateIdentifierError{ID: id, Path: b, OtherPath: a}
		}
		c.byID[id] = i

		for _, tag := range p.Meta.Tags {
			c.ByTag[tag] = append(c.ByTag[tag], id)
		}
		for _, cat := range p.Meta.Categories {
			c.ByCategory[cat] = append(c.ByCategory[cat], id)
		}
	}
	return c, nil
}

// Less is the chronological total order: newer dates first, identifier
// ascending as the tie-break.
func Less(a, b content.PostMeta) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID < b.ID
}

func (c *Collection) Len() int {
	return len(c.Posts)
}

func (c *Collection) Get(id string) (content.Post, bool) {
	i, ok := c.byID[id]
	if !ok {
		return content.Post{}, false
	}
	return c.Posts[i], true
}

// Tags returns every tag name, sorted.
func (c *Collection) Tags() []string {
	return sortedKeys(c.ByTag)
}

// Categories returns every category name, sorted.
func (c *Collection) Categories() []string {
	return sortedKeys(c.ByCategory)
}

// PostsByTag resolves the tag index into posts, chronological order.
func (c *Collection) PostsByTag(tag string) []content.Post {
	return c.resolve(c.ByTag[tag])
}

// PostsByCategory resolves the category index into posts, chronological
// order.
func (c *Collection) PostsByCategory(cat string) []content.Post {
	return c.resolve(c.ByCategory[cat])
}

func (c *Collection) resolve(ids []string) []content.Post {
	out := make([]content.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
