package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/trapx25/inkwell/internal/domain/content"
	"github.com/trapx25/inkwell/internal/domain/site"
)

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	tplDir := filepath.Join(themeDir, themeName, "templates")
	if err := CheckThemeTemplates(tplDir); err != nil {
		return nil, fmt.Errorf("theme %s: %w", themeName, err)
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseGlob(filepath.Join(tplDir, "*.tmpl"))
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"postURL": func(m content.PostMeta) string {
			d := m.Date
			return fmt.Sprintf("/post/%04d/%02d/%02d/%s/",
				d.Year(), int(d.Month()), d.Day(), m.Slug,
			)
		},
		"tagURL": func(tag string) string {
			return "/tags/" + site.SafeSegment(tag) + "/"
		},
		"categoryURL": func(cat string) string {
			return "/categories/" + site.SafeSegment(cat) + "/"
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("list.tmpl", page)
}

func (r *TemplateRenderer) RenderArchives(ctx context.Context, page ArchivesPage) ([]byte, error) {
	return r.exec("archives.tmpl", page)
}

func (r *TemplateRenderer) RenderTagsPage(ctx context.Context, page TagsPage) ([]byte, error) {
	return r.exec("tags-all.tmpl", page)
}

func (r *TemplateRenderer) RenderCategoriesPage(ctx context.Context, page CategoriesPage) ([]byte, error) {
	return r.exec("categories-all.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckThemeTemplates verifies a theme ships every page template the
// renderer will ask for.
func CheckThemeTemplates(themeDir string) error {
	required := []string{
		"home.tmpl",
		"post.tmpl",
		"list.tmpl",
		"archives.tmpl",
		"tags-all.tmpl",
		"categories-all.tmpl",
		"404.tmpl",
	}
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
