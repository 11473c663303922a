package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDiscoverSourceParsesDateAndSlug(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-welcome-to-jekyll.markdown", "x")
	writeSource(t, dir, "2015-09-05-Refactoring Controllers.md", "x")
	writeSource(t, dir, "notes.txt", "ignored")

	files, err := DiscoverSource(dir, time.UTC)
	require.NoError(t, err)
	require.Len(t, files, 2)

	byID := map[string]SourceFile{}
	for _, f := range files {
		byID[f.ID()] = f
	}
	require.Contains(t, byID, "2015-08-24-welcome-to-jekyll")
	require.Contains(t, byID, "2015-09-05-refactoring-controllers")

	f := byID["2015-08-24-welcome-to-jekyll"]
	assert.Equal(t, "welcome-to-jekyll", f.Slug)
	assert.Equal(t, time.Date(2015, 8, 24, 0, 0, 0, 0, time.UTC), f.Date)
}

func TestDiscoverSourceMissingIdentifier(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "welcome.md", "x")

	_, err := DiscoverSource(dir, time.UTC)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrMissingIdentifier)

	var mi domainerr.MissingIdentifierError
	require.ErrorAs(t, err, &mi)
	assert.Contains(t, mi.Path, "welcome.md")
}

func TestDiscoverSourceRejectsImpossibleDate(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-13-40-nope.md", "x")

	_, err := DiscoverSource(dir, time.UTC)
	assert.ErrorIs(t, err, domainerr.ErrMissingIdentifier)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "welcome-to-jekyll", slugify("Welcome to Jekyll!"))
	assert.Equal(t, "a-b-c", slugify("a_b  c"))
	assert.Equal(t, "", slugify("!!!"))
}
