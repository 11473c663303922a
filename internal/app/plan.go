// Package app turns an assembled Collection into the rendering plan the
// build command executes: one route per output page.
package app

import (
	"path"

	"github.com/trapx25/inkwell/internal/collection"
	"github.com/trapx25/inkwell/internal/domain/site"
)

// BuildPlan lists every page of the site in a stable order: index, posts
// (chronological), tag pages, category pages, overviews, archives, 404.
func BuildPlan(c *collection.Collection) []site.Route {
	routes := []site.Route{
		{Kind: site.RouteIndex, OutPath: "index.html"},
	}

	for _, p := range c.Posts {
		y, m, d := p.Meta.Date.Date()
		routes = append(routes, site.Route{
			Kind:    site.RoutePost,
			ID:      p.Meta.ID,
			OutPath: site.PostPath(y, int(m), d, p.Meta.Slug),
		})
	}

	for _, tag := range c.Tags() {
		routes = append(routes, site.Route{
			Kind:    site.RouteTag,
			Key:     tag,
			OutPath: path.Join("tags", site.SafeSegment(tag), "index.html"),
		})
	}
	for _, cat := range c.Categories() {
		routes = append(routes, site.Route{
			Kind:    site.RouteCategory,
			Key:     cat,
			OutPath: path.Join("categories", site.SafeSegment(cat), "index.html"),
		})
	}

	routes = append(routes,
		site.Route{Kind: site.RouteTags, OutPath: "tags/index.html"},
		site.Route{Kind: site.RouteCategories, OutPath: "categories/index.html"},
		site.Route{Kind: site.RouteArchive, OutPath: "archives/index.html"},
		site.Route{Kind: site.RouteNotFound, OutPath: "404.html"},
	)
	return routes
}
