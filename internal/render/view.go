package render

import (
	"html/template"
	"time"

	"github.com/trapx25/inkwell/internal/domain/config"
	"github.com/trapx25/inkwell/internal/domain/content"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

type PostPage struct {
	Site config.SiteConfig
	Meta content.PostMeta
	HTML template.HTML
	TOC  []Heading

	// Comments mirrors Meta.Comments so themes can gate their comment
	// widget without reaching into Meta.
	Comments bool

	PageTitle string
}

type ListPage struct {
	Site      config.SiteConfig
	Title     string
	SubTitle  string
	Items     []content.PostMeta
	Page      int
	PageSize  int
	Total     int
	Tag       string
	Category  string
	Generated time.Time
	PageTitle string
}

type HomePage struct {
	Site      config.SiteConfig
	Items     []content.PostMeta
	Page      int
	PageSize  int
	Generated time.Time
	PageTitle string
}

type NotFoundPage struct {
	Site      config.SiteConfig
	Path      string
	PageTitle string
}

type ArchivesGroup struct {
	Year  int
	Posts []content.PostMeta
	Count int
}

type ArchivesPage struct {
	Site      config.SiteConfig
	Groups    []ArchivesGroup
	Total     int
	PageTitle string
}

type TagStat struct {
	Name  string
	Count int
}

type TagsPage struct {
	Site      config.SiteConfig
	Tags      []TagStat
	Total     int
	PageTitle string
}

type CategoryStat struct {
	Name  string
	Count int
}

type CategoriesPage struct {
	Site       config.SiteConfig
	Categories []CategoryStat
	Total      int
	PageTitle  string
}
