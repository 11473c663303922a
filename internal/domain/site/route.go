package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteIndex      RouteKind = "index"
	RoutePost       RouteKind = "post"
	RouteTag        RouteKind = "tag"
	RouteCategory   RouteKind = "category"
	RouteTags       RouteKind = "tags"
	RouteCategories RouteKind = "categories"
	RouteArchive    RouteKind = "archive"
	RouteNotFound   RouteKind = "404"
)

// Route is one entry in the rendering plan: a page kind, the document or
// index key it renders, and where the output lands relative to the public
// directory.
type Route struct {
	Kind    RouteKind
	ID      string // post identifier, for RoutePost
	Key     string // tag or category name, for RouteTag / RouteCategory
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.ID != "" {
		parts = append(parts, "id="+r.ID)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// PostPath is the canonical output location of a post page.
func PostPath(year, month, day int, slug string) string {
	return fmt.Sprintf("post/%04d/%02d/%02d/%s/index.html", year, month, day, slug)
}

// SafeSegment maps an arbitrary tag or category name onto a filesystem and
// URL safe path segment.
func SafeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	repl := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}
	return strings.Map(repl, s)
}
