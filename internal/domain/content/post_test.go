package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDedupesKeepingFirstOccurrence(t *testing.T) {
	m := PostMeta{
		Title: "  Hello  ",
		Tags:  []string{"Go", "jekyll", " go ", "", "update", "Jekyll"},
	}
	m.Normalize()

	assert.Equal(t, "Hello", m.Title)
	assert.Equal(t, []string{"go", "jekyll", "update"}, m.Tags)
}

func TestNormalizeEmptyStaysEmptyNotNil(t *testing.T) {
	m := PostMeta{Tags: nil, Categories: nil}
	m.Normalize()

	assert.NotNil(t, m.Tags)
	assert.NotNil(t, m.Categories)
	assert.Empty(t, m.Tags)
	assert.Empty(t, m.Categories)
}
