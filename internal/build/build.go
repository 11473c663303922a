// Package build runs one complete pass: ingest sources, assemble the
// collection, render every page of the plan into the public directory.
// A build either finishes or fails as a whole; nothing is published on
// error.
package build

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/trapx25/inkwell/internal/app"
	"github.com/trapx25/inkwell/internal/collection"
	"github.com/trapx25/inkwell/internal/domain/config"
	"github.com/trapx25/inkwell/internal/domain/content"
	"github.com/trapx25/inkwell/internal/domain/site"
	"github.com/trapx25/inkwell/internal/ingest"
	"github.com/trapx25/inkwell/internal/render"
)

type Builder struct {
	Cfg config.Config
	Log zerolog.Logger
}

type Result struct {
	Posts    int
	Pages    int
	Warnings []ingest.Warning
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	posts, warns, err := ingest.Ingest(ingest.Options{
		SourceDir:     b.Cfg.Build.SourceDir,
		Location:      b.Cfg.Location(),
		Now:           b.Cfg.Build.Now,
		IncludeFuture: b.Cfg.Build.IncludeFuture,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		b.Log.Warn().Str("path", w.Path).Msg(w.Msg)
	}

	coll, err := collection.Assemble(posts)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	md := render.NewMarkdownRenderer()
	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme %q: %w", b.Cfg.Site.Theme, err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	plan := app.BuildPlan(coll)
	for _, route := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := b.renderRoute(ctx, route, coll, md, tpl)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", route, err)
		}
		if err := writeFile(outDir, route.OutPath, data); err != nil {
			return nil, fmt.Errorf("write %s: %w", route.OutPath, err)
		}
		b.Log.Debug().Stringer("route", route).Msg("rendered")
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	return &Result{
		Posts:    coll.Len(),
		Pages:    len(plan),
		Warnings: warns,
	}, nil
}

func (b *Builder) renderRoute(
	ctx context.Context,
	route site.Route,
	coll *collection.Collection,
	md *render.MarkdownRenderer,
	tpl render.Renderer,
) ([]byte, error) {
	switch route.Kind {
	case site.RouteIndex:
		return b.renderHome(ctx, coll, tpl)
	case site.RoutePost:
		post, ok := coll.Get(route.ID)
		if !ok {
			return nil, fmt.Errorf("post %s not in collection", route.ID)
		}
		return b.renderPost(ctx, post, md, tpl)
	case site.RouteTag:
		return tpl.RenderList(ctx, listPage(b.Cfg, "Tag: "+route.Key, route.Key, "", coll.PostsByTag(route.Key)))
	case site.RouteCategory:
		return tpl.RenderList(ctx, listPage(b.Cfg, "Category: "+route.Key, "", route.Key, coll.PostsByCategory(route.Key)))
	case site.RouteTags:
		return tpl.RenderTagsPage(ctx, tagsPage(b.Cfg, coll))
	case site.RouteCategories:
		return tpl.RenderCategoriesPage(ctx, categoriesPage(b.Cfg, coll))
	case site.RouteArchive:
		return tpl.RenderArchives(ctx, archivesPage(b.Cfg, coll))
	case site.RouteNotFound:
		return tpl.RenderNotFound(ctx, render.NotFoundPage{Site: b.Cfg.Site})
	default:
		return nil, fmt.Errorf("unknown route kind %q", route.Kind)
	}
}

func (b *Builder) renderHome(ctx context.Context, coll *collection.Collection, tpl render.Renderer) ([]byte, error) {
	const homeSize = 20

	items := make([]content.PostMeta, 0, homeSize)
	for _, p := range coll.Posts {
		items = append(items, p.Meta)
		if len(items) >= homeSize {
			break
		}
	}
	return tpl.RenderHome(ctx, render.HomePage{
		Site:      b.Cfg.Site,
		Items:     items,
		Page:      1,
		PageSize:  homeSize,
		Generated: b.Cfg.Build.Now,
		PageTitle: "Home",
	})
}

func (b *Builder) renderPost(ctx context.Context, post content.Post, md *render.MarkdownRenderer, tpl render.Renderer) ([]byte, error) {
	mdResult, err := md.Render(post.Body)
	if err != nil {
		return nil, fmt.Errorf("markdown %s: %w", post.Meta.ID, err)
	}
	return tpl.RenderPost(ctx, render.PostPage{
		Site:      b.Cfg.Site,
		Meta:      post.Meta,
		HTML:      template.HTML(mdResult.HTML),
		TOC:       mdResult.Headings,
		Comments:  post.Meta.Comments,
		PageTitle: post.Meta.Title,
	})
}

func listPage(cfg config.Config, title, tag, cat string, posts []content.Post) render.ListPage {
	items := make([]content.PostMeta, 0, len(posts))
	for _, p := range posts {
		items = append(items, p.Meta)
	}
	return render.ListPage{
		Site:      cfg.Site,
		Title:     title,
		Items:     items,
		Page:      1,
		PageSize:  len(items),
		Total:     len(items),
		Tag:       tag,
		Category:  cat,
		Generated: cfg.Build.Now,
	}
}

func tagsPage(cfg config.Config, coll *collection.Collection) render.TagsPage {
	stats := make([]render.TagStat, 0, len(coll.ByTag))
	for _, name := range coll.Tags() {
		stats = append(stats, render.TagStat{Name: name, Count: len(coll.ByTag[name])})
	}
	sortStatsByCount(stats, func(s render.TagStat) (string, int) { return s.Name, s.Count })
	return render.TagsPage{Site: cfg.Site, Tags: stats, Total: len(stats)}
}

func categoriesPage(cfg config.Config, coll *collection.Collection) render.CategoriesPage {
	stats := make([]render.CategoryStat, 0, len(coll.ByCategory))
	for _, name := range coll.Categories() {
		stats = append(stats, render.CategoryStat{Name: name, Count: len(coll.ByCategory[name])})
	}
	sortStatsByCount(stats, func(s render.CategoryStat) (string, int) { return s.Name, s.Count })
	return render.CategoriesPage{Site: cfg.Site, Categories: stats, Total: len(stats)}
}

// count descending, name ascending on ties
func sortStatsByCount[T any](stats []T, key func(T) (string, int)) {
	sort.Slice(stats, func(i, j int) bool {
		ni, ci := key(stats[i])
		nj, cj := key(stats[j])
		if ci == cj {
			return ni < nj
		}
		return ci > cj
	})
}

func archivesPage(cfg config.Config, coll *collection.Collection) render.ArchivesPage {
	groupsMap := make(map[int][]content.PostMeta)
	for _, p := range coll.Posts {
		y := p.Meta.Date.Year()
		groupsMap[y] = append(groupsMap[y], p.Meta)
	}

	years := make([]int, 0, len(groupsMap))
	for y := range groupsMap {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]render.ArchivesGroup, 0, len(years))
	for _, y := range years {
		groups = append(groups, render.ArchivesGroup{
			Year:  y,
			Posts: groupsMap[y],
			Count: len(groupsMap[y]),
		})
	}
	return render.ArchivesPage{
		Site:   cfg.Site,
		Groups: groups,
		Total:  coll.Len(),
	}
}

func (b *Builder) copyStaticAssets(outDir string) error {
	src := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(outDir, rel, in)
	})
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
