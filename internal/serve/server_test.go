package serve

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trapx25/inkwell/internal/domain/config"
)

var serveTemplates = map[string]string{
	"home.tmpl":           `home {{range .Items}}{{.ID}} {{end}}`,
	"post.tmpl":           `post {{.Meta.Title}}`,
	"list.tmpl":           `listing {{.Title}}: {{range .Items}}{{.ID}} {{end}}`,
	"archives.tmpl":       `archives {{range .Groups}}{{.Year}} {{end}}`,
	"tags-all.tmpl":       `tags overview {{range .Tags}}{{.Name}}={{.Count}} {{end}}`,
	"categories-all.tmpl": `categories overview {{range .Categories}}{{.Name}}={{.Count}} {{end}}`,
	"404.tmpl":            `not found {{.Path}}`,
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Site.TimeZone = "UTC"
	cfg.Build.SourceDir = filepath.Join(root, "_posts")
	cfg.Build.ThemeDir = filepath.Join(root, "themes")
	require.NoError(t, os.MkdirAll(cfg.Build.SourceDir, 0o755))

	tplDir := filepath.Join(cfg.Build.ThemeDir, cfg.Site.Theme, "templates")
	require.NoError(t, os.MkdirAll(tplDir, 0o755))
	for name, body := range serveTemplates {
		require.NoError(t, os.WriteFile(filepath.Join(tplDir, name), []byte(body), 0o644))
	}

	post := `---
title: Hello
tags: [go]
categories: dev
---
Body.
`
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Build.SourceDir, "2015-08-24-hello.md"), []byte(post), 0o644))

	srv, err := New(cfg, filepath.Join(root, "index.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	require.NoError(t, srv.rebuild())
	return srv
}

func TestHandleTagListing(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleTag(rec, httptest.NewRequest("GET", "/tags/go/", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "listing Tag: go")
	assert.Contains(t, rec.Body.String(), "2015-08-24-hello")
}

func TestBareTagsURLServesOverview(t *testing.T) {
	srv := newTestServer(t)

	// "/tags/" lands on the subtree handler with an empty key; it must
	// answer with the overview page, matching the static build's
	// tags/index.html
	rec := httptest.NewRecorder()
	srv.handleTag(rec, httptest.NewRequest("GET", "/tags/", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "tags overview")
	assert.Contains(t, rec.Body.String(), "go=1")
}

func TestBareCategoriesURLServesOverview(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleCategory(rec, httptest.NewRequest("GET", "/categories/", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "categories overview")
	assert.Contains(t, rec.Body.String(), "dev=1")
}

func TestHandlePostAndNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handlePost(rec, httptest.NewRequest("GET", "/post/2015/08/24/hello/", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "post Hello")

	rec = httptest.NewRecorder()
	srv.handlePost(rec, httptest.NewRequest("GET", "/post/2015/08/24/nope/", nil))
	assert.Equal(t, 404, rec.Code)
}
