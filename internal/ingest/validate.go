package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/trapx25/inkwell/internal/domain/content"
	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

// BuildPost turns one raw (front matter, body) pair into a validated Post.
// Pure transformation: the only failure mode is a ValidationError naming
// the offending fields.
func BuildPost(sf SourceFile, fm FrontMatter, body, raw []byte, loc *time.Location) (content.Post, error) {
	ve := domainerr.ValidationError{Path: sf.Path}

	if strings.TrimSpace(fm.Title) == "" {
		ve.Add("title", "must not be empty")
	}

	// The filename date is the identifier's source of truth. A front
	// matter date may refine the time of day but must agree on the
	// calendar day.
	date := sf.Date
	if strings.TrimSpace(fm.Date) != "" {
		parsed := ParseTime(fm.Date, loc)
		switch {
		case parsed.IsZero():
			ve.Add("date", "unrecognized date format: "+fm.Date)
		case !sameDay(parsed, sf.Date):
			ve.Add("date", fmt.Sprintf("%s does not match the filename date %s",
				parsed.Format(time.DateOnly), sf.Date.Format(time.DateOnly)))
		default:
			date = parsed
		}
	}

	tags, err := coerceStringList(fm.Tags)
	if err != nil {
		ve.Add("tags", err.Error())
	}
	categories, err := coerceStringList(fm.Categories)
	if err != nil {
		ve.Add("categories", err.Error())
	}

	comments, err := coerceBool(fm.Comments, true)
	if err != nil {
		ve.Add("comments", err.Error())
	}

	if ve.HasAny() {
		return content.Post{}, ve
	}

	meta := content.PostMeta{
		ID:         sf.ID(),
		Slug:       sf.Slug,
		Title:      fm.Title,
		Date:       date,
		Categories: categories,
		Tags:       tags,
		Comments:   comments,
		Layout:     strings.TrimSpace(fm.Layout),
	}
	meta.Normalize()

	return content.Post{
		Meta: meta,
		Body: body,
		Source: content.Source{
			Path:        sf.Path,
			ContentHash: HashBytes(raw),
		},
	}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// coerceStringList accepts a YAML sequence of strings or a single
// whitespace-separated string (Jekyll's "categories: jekyll update" form).
// Absent values become an empty slice, never nil.
func coerceStringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return strings.Fields(t), nil
	case []string:
		return append([]string{}, t...), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must be a list of strings, got %T element", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings, got %T", v)
	}
}

func coerceBool(v any, fallback bool) (bool, error) {
	switch t := v.(type) {
	case nil:
		return fallback, nil
	case bool:
		return t, nil
	default:
		return false, fmt.Errorf("must be a boolean, got %T", v)
	}
}
