package ingest

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

// SourceFile is one discovered post file with the identifier parts encoded
// in its name: _posts/2015-08-24-welcome-to-jekyll.markdown.
type SourceFile struct {
	Path string
	Date time.Time
	Slug string
}

// ID is the document identifier: filename date plus slug.
func (sf SourceFile) ID() string {
	return sf.Date.Format(time.DateOnly) + "-" + sf.Slug
}

var stemPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// DiscoverSource walks root and returns every markdown source file. A
// markdown file whose name does not encode a date and slug aborts the
// discovery with a MissingIdentifierError; other files are ignored.
func DiscoverSource(root string, loc *time.Location) ([]SourceFile, error) {
	if loc == nil {
		loc = time.Local
	}

	var out []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".md") && !strings.HasSuffix(name, ".markdown") {
			return nil
		}

		sf, ok := parseStem(path, d.Name(), loc)
		if !ok {
			return domainerr.MissingIdentifierError{Path: path}
		}
		out = append(out, sf)
		return nil
	})
	return out, err
}

func parseStem(path, name string, loc *time.Location) (SourceFile, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	m := stemPattern.FindStringSubmatch(stem)
	if m == nil {
		return SourceFile{}, false
	}

	date, err := time.ParseInLocation(time.DateOnly, m[1], loc)
	if err != nil {
		return SourceFile{}, false
	}
	slug := slugify(m[2])
	if slug == "" {
		return SourceFile{}, false
	}
	return SourceFile{Path: path, Date: date, Slug: slug}, true
}
