package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trapx25/inkwell/internal/domain/content"
	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

func post(day int, slug string, tags, cats []string) content.Post {
	date := time.Date(2015, 8, day, 0, 0, 0, 0, time.UTC)
	if tags == nil {
		tags = []string{}
	}
	if cats == nil {
		cats = []string{}
	}
	return content.Post{
		Meta: content.PostMeta{
			ID:         date.Format(time.DateOnly) + "-" + slug,
			Slug:       slug,
			Title:      slug,
			Date:       date,
			Tags:       tags,
			Categories: cats,
			Comments:   true,
		},
		Source: content.Source{Path: "_posts/" + date.Format(time.DateOnly) + "-" + slug + ".md"},
	}
}

func TestAssembleChronologicalOrder(t *testing.T) {
	older := post(24, "welcome", nil, []string{"jekyll"})
	newer := content.Post{
		Meta: content.PostMeta{
			ID:    "2015-09-05-refactoring",
			Slug:  "refactoring",
			Title: "refactoring",
			Date:  time.Date(2015, 9, 5, 0, 0, 0, 0, time.UTC),
			Tags:  []string{"rails"}, Categories: []string{},
		},
		Source: content.Source{Path: "_posts/2015-09-05-refactoring.md"},
	}

	// input deliberately oldest-first
	c, err := Assemble([]content.Post{older, newer})
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "2015-09-05-refactoring", c.Posts[0].Meta.ID)
	assert.Equal(t, "2015-08-24-welcome", c.Posts[1].Meta.ID)
}

func TestAssembleTieBreakByIdentifier(t *testing.T) {
	c, err := Assemble([]content.Post{
		post(24, "zebra", nil, nil),
		post(24, "aardvark", nil, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "2015-08-24-aardvark", c.Posts[0].Meta.ID)
	assert.Equal(t, "2015-08-24-zebra", c.Posts[1].Meta.ID)
}

func TestAssembleIndexesFollowChronology(t *testing.T) {
	a := post(24, "first", []string{"go"}, []string{"dev"})
	b := post(25, "second", []string{"go", "blog"}, []string{"dev"})

	c, err := Assemble([]content.Post{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{"2015-08-25-second", "2015-08-24-first"}, c.ByTag["go"])
	assert.Equal(t, []string{"2015-08-25-second"}, c.ByTag["blog"])
	assert.Equal(t, []string{"2015-08-25-second", "2015-08-24-first"}, c.ByCategory["dev"])

	assert.Equal(t, []string{"blog", "go"}, c.Tags())
	assert.Equal(t, []string{"dev"}, c.Categories())

	resolved := c.PostsByTag("go")
	require.Len(t, resolved, 2)
	assert.Equal(t, "second", resolved[0].Meta.Slug)
}

func TestAssembleDuplicateIdentifier(t *testing.T) {
	a := post(24, "same", nil, nil)
	b := post(24, "same", nil, nil)
	b.Source.Path = "_posts/elsewhere/2015-08-24-same.md"

	_, err := Assemble([]content.Post{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrDuplicateIdentifier)

	var de domainerr.DuplicateIdentifierError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "2015-08-24-same", de.ID)
	assert.NotEqual(t, de.Path, de.OtherPath)
}

func TestAssembleUniqueIdentifiers(t *testing.T) {
	c, err := Assemble([]content.Post{
		post(20, "a", nil, nil),
		post(21, "b", nil, nil),
		post(22, "c", nil, nil),
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range c.Posts {
		assert.False(t, seen[p.Meta.ID], "identifier %s appears twice", p.Meta.ID)
		seen[p.Meta.ID] = true
	}
}
