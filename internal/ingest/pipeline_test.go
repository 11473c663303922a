package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

const postA = `---
layout: post
title: "Welcome to Jekyll!"
categories: jekyll update
---
Body A.
`

const postB = `---
title: "Refactoring a controller"
tags:
  - refactoring
  - rails
---
Body B.
`

func TestIngestOrdersChronologically(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-welcome-to-jekyll.markdown", postA)
	writeSource(t, dir, "2015-09-05-refactoring-a-controller.md", postB)

	posts, warns, err := Ingest(Options{
		SourceDir:     dir,
		Location:      time.UTC,
		IncludeFuture: true,
	})
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, posts, 2)

	// newest first
	assert.Equal(t, "2015-09-05-refactoring-a-controller", posts[0].Meta.ID)
	assert.Equal(t, "2015-08-24-welcome-to-jekyll", posts[1].Meta.ID)
	assert.Equal(t, []string{"refactoring", "rails"}, posts[0].Meta.Tags)
}

func TestIngestTieBreaksByIdentifier(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-beta.md", "---\ntitle: b\n---\nx\n")
	writeSource(t, dir, "2015-08-24-alpha.md", "---\ntitle: a\n---\nx\n")

	posts, _, err := Ingest(Options{SourceDir: dir, Location: time.UTC, IncludeFuture: true})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "2015-08-24-alpha", posts[0].Meta.ID)
	assert.Equal(t, "2015-08-24-beta", posts[1].Meta.ID)
}

func TestIngestFailsOnMissingTitle(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-ok.md", postA)
	writeSource(t, dir, "2015-08-25-untitled.md", "---\nlayout: post\n---\nx\n")

	_, _, err := Ingest(Options{SourceDir: dir, Location: time.UTC, IncludeFuture: true})
	require.Error(t, err)

	var ve domainerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.HasField("title"))
	assert.Contains(t, ve.Path, "2015-08-25-untitled.md")
}

func TestIngestFailsOnMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-raw.md", "no metadata block here\n")

	_, _, err := Ingest(Options{SourceDir: dir, Location: time.UTC, IncludeFuture: true})
	assert.ErrorIs(t, err, domainerr.ErrMalformedDocument)
}

func TestIngestReportsDeterministicError(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-aaa.md", "---\nlayout: post\n---\nx\n")
	writeSource(t, dir, "2015-08-25-bbb.md", "---\nlayout: post\n---\nx\n")

	// both documents are invalid; the reported one must always be the
	// lexicographically smallest path
	for i := 0; i < 5; i++ {
		_, _, err := Ingest(Options{SourceDir: dir, Location: time.UTC, IncludeFuture: true})
		var ve domainerr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Path, "2015-08-24-aaa.md")
	}
}

func TestIngestSkipsFuturePosts(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "2015-08-24-past.md", postA)
	writeSource(t, dir, "2099-01-01-future.md", "---\ntitle: later\n---\nx\n")

	posts, warns, err := Ingest(Options{
		SourceDir:     dir,
		Location:      time.UTC,
		Now:           time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		IncludeFuture: false,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	// the identifier comes from the filename, not the front matter title
	assert.Equal(t, "2015-08-24-past", posts[0].Meta.ID)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Msg, "future")
}
