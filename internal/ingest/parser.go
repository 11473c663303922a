package ingest

import (
	"bytes"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/frontmatter"

	domainerr "github.com/trapx25/inkwell/internal/domain/errors"
)

// FrontMatter is the raw metadata block of one source file. Tags,
// categories and comments are variant-typed on purpose: the block is a
// string-to-variant mapping and each field is coerced during validation,
// not trusted at parse time.
type FrontMatter struct {
	Layout     string `yaml:"layout"`
	Title      string `yaml:"title"`
	Date       string `yaml:"date"`
	Categories any    `yaml:"categories"`
	Tags       any    `yaml:"tags"`
	Comments   any    `yaml:"comments"`
}

// ParseFrontMatter splits raw file content into the metadata block and the
// body. A file without a front matter delimiter is a MalformedDocumentError.
func ParseFrontMatter(path string, raw []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &fm)
	if err != nil {
		return FrontMatter{}, nil, domainerr.MalformedDocumentError{
			Path:   path,
			Reason: "front matter: " + err.Error(),
		}
	}
	return fm, body, nil
}

// ParseTime accepts the date layouts seen in blog front matter, including
// Jekyll's zoned form "2015-08-24 19:50:33 -0400". Returns the zero time
// when nothing matches.
func ParseTime(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05 -0700",
		time.DateTime,
		"2006-01-02 15:04",
		time.DateOnly,
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if 'A' <= r && r <= 'Z' {
				r = r + ('a' - 'A')
			}
			out = append(out, r)
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
