// Package serve is the development server: it keeps the site ingested in
// memory plus a bbolt metadata index, renders pages on request, and
// rebuilds on source changes with SSE live-reload.
package serve

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/trapx25/inkwell/internal/collection"
	buildfp "github.com/trapx25/inkwell/internal/domain/build"
	"github.com/trapx25/inkwell/internal/domain/config"
	"github.com/trapx25/inkwell/internal/domain/content"
	"github.com/trapx25/inkwell/internal/index"
	"github.com/trapx25/inkwell/internal/ingest"
	"github.com/trapx25/inkwell/internal/render"
)

type Server struct {
	cfg config.Config
	log zerolog.Logger

	indexPath string
	idx       *index.Store
	md        *render.MarkdownRenderer
	tpl       render.Renderer

	mu          sync.RWMutex
	coll        *collection.Collection
	fingerprint string

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, indexPath string, log zerolog.Logger) (*Server, error) {
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: load theme: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: open index: %w", err)
	}

	return &Server{
		cfg:       cfg,
		log:       log,
		indexPath: indexPath,
		idx:       st,
		md:        render.NewMarkdownRenderer(),
		tpl:       tpl,
		sseConns:  make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/post/", s.handlePost)
	mux.HandleFunc("/tags/", s.handleTag)
	mux.HandleFunc("/categories/", s.handleCategory)
	mux.HandleFunc("/tags", s.handleTagsRoot)
	mux.HandleFunc("/categories", s.handleCategoriesRoot)
	mux.HandleFunc("/archives", s.handleArchives)

	// dev live-reload
	mux.HandleFunc("/dev/events", s.handleSSE)

	staticDir := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme, "static")
	fileServer := http.FileServer(http.Dir(staticDir))
	mux.Handle("/css/", fileServer)
	mux.Handle("/js/", fileServer)
	mux.Handle("/images/", fileServer)
	mux.Handle("/favicon.ico", fileServer)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info().Str("addr", addr).Msg("listening")
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) rebuild() error {
	sourceDir := s.cfg.Build.SourceDir
	s.log.Info().Str("source", sourceDir).Msg("ingesting")

	posts, warns, err := ingest.Ingest(ingest.Options{
		SourceDir:     sourceDir,
		Location:      s.cfg.Location(),
		Now:           time.Now(),
		IncludeFuture: true, // the dev server always shows future posts
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		s.log.Warn().Str("path", w.Path).Msg(w.Msg)
	}

	coll, err := collection.Assemble(posts)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}

	fp := contentFingerprint(s.cfg, coll)
	s.mu.RLock()
	unchanged := fp == s.fingerprint
	s.mu.RUnlock()
	if unchanged {
		s.log.Debug().Msg("content unchanged, skipping rebuild")
		return nil
	}

	if err := s.idx.Rebuild(coll.Posts); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	s.mu.Lock()
	s.coll = coll
	s.fingerprint = fp
	s.mu.Unlock()

	s.log.Info().Int("posts", coll.Len()).Msg("rebuild complete")
	s.broadcastSSE("reload")
	return nil
}

func contentFingerprint(cfg config.Config, coll *collection.Collection) string {
	pairs := make(map[string]string, coll.Len())
	for _, p := range coll.Posts {
		pairs[p.Meta.ID] = p.Source.ContentHash
	}
	fp := buildfp.Fingerprint{
		ContentHash: buildfp.HashContentSet(pairs),
		ConfigHash:  ingest.HashBytes([]byte(cfg.Site.Title + "\x00" + cfg.Site.Theme + "\x00" + cfg.Build.BasePath)),
	}
	fp.ComputeRenderHash()
	return fp.RenderHash
}

func (s *Server) collection() *collection.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.Walk(s.cfg.Build.SourceDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info().Msg("watching for file changes")
	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		case <-debounce.C:
			// a broken edit must not kill the server; keep serving the
			// previous good state
			if err := s.rebuild(); err != nil {
				s.log.Error().Err(err).Msg("rebuild failed")
			}
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()
	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()

	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.handleNotFound(w, r)
		return
	}

	metas, err := s.idx.List(index.ListOptions{Page: 1, Size: 20})
	if err != nil {
		http.Error(w, "home query error", http.StatusInternalServerError)
		return
	}

	htmlBytes, err := s.tpl.RenderHome(r.Context(), render.HomePage{
		Site:      s.cfg.Site,
		Items:     metas,
		Page:      1,
		PageSize:  20,
		Generated: time.Now(),
		PageTitle: "Home",
	})
	if err != nil {
		s.log.Error().Err(err).Msg("render home")
		http.Error(w, "render home error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

// post page: /post/YYYY/MM/DD/slug/ or /post/YYYY/MM/DD/slug
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/post/")
	path = strings.TrimSuffix(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) != 4 {
		s.handleNotFound(w, r)
		return
	}
	id := fmt.Sprintf("%s-%s-%s-%s", parts[0], parts[1], parts[2], parts[3])

	coll := s.collection()
	if coll == nil {
		s.handleNotFound(w, r)
		return
	}
	post, ok := coll.Get(id)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	mdResult, err := s.md.Render(post.Body)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("markdown render")
		http.Error(w, "markdown render error", http.StatusInternalServerError)
		return
	}

	htmlBytes, err := s.tpl.RenderPost(r.Context(), render.PostPage{
		Site:      s.cfg.Site,
		Meta:      post.Meta,
		HTML:      template.HTML(mdResult.HTML),
		TOC:       mdResult.Headings,
		Comments:  post.Meta.Comments,
		PageTitle: post.Meta.Title,
	})
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("render post")
		http.Error(w, "render post error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	// the "/tags/" subtree pattern also captures the bare overview URL
	if r.URL.Path == "/tags/" {
		s.handleTagsRoot(w, r)
		return
	}
	s.handleListing(w, r, "/tags/", "Tag: ", s.idx.ListByTag, func(lp *render.ListPage, key string) {
		lp.Tag = key
	})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/categories/" {
		s.handleCategoriesRoot(w, r)
		return
	}
	s.handleListing(w, r, "/categories/", "Category: ", s.idx.ListByCategory, func(lp *render.ListPage, key string) {
		lp.Category = key
	})
}

func (s *Server) handleListing(
	w http.ResponseWriter,
	r *http.Request,
	prefix, titlePrefix string,
	list func(string, index.ListOptions) ([]content.PostMeta, error),
	set func(*render.ListPage, string),
) {
	key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if key == "" {
		s.handleNotFound(w, r)
		return
	}

	items, err := list(key, index.ListOptions{Page: 1, Size: 1000})
	if err != nil || len(items) == 0 {
		s.handleNotFound(w, r)
		return
	}

	lp := render.ListPage{
		Site:      s.cfg.Site,
		Title:     titlePrefix + key,
		Items:     items,
		Page:      1,
		PageSize:  len(items),
		Total:     len(items),
		Generated: time.Now(),
	}
	set(&lp, key)

	htmlBytes, err := s.tpl.RenderList(r.Context(), lp)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("render listing")
		http.Error(w, "render listing error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleTagsRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/tags" && r.URL.Path != "/tags/" {
		s.handleNotFound(w, r)
		return
	}
	coll := s.collection()
	if coll == nil {
		s.handleNotFound(w, r)
		return
	}

	stats := make([]render.TagStat, 0, len(coll.ByTag))
	for _, name := range coll.Tags() {
		stats = append(stats, render.TagStat{Name: name, Count: len(coll.ByTag[name])})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})

	htmlBytes, err := s.tpl.RenderTagsPage(r.Context(), render.TagsPage{
		Site:  s.cfg.Site,
		Tags:  stats,
		Total: len(stats),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("render tags overview")
		http.Error(w, "render tags overview error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleCategoriesRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/categories" && r.URL.Path != "/categories/" {
		s.handleNotFound(w, r)
		return
	}
	coll := s.collection()
	if coll == nil {
		s.handleNotFound(w, r)
		return
	}

	stats := make([]render.CategoryStat, 0, len(coll.ByCategory))
	for _, name := range coll.Categories() {
		stats = append(stats, render.CategoryStat{Name: name, Count: len(coll.ByCategory[name])})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})

	htmlBytes, err := s.tpl.RenderCategoriesPage(r.Context(), render.CategoriesPage{
		Site:       s.cfg.Site,
		Categories: stats,
		Total:      len(stats),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("render categories overview")
		http.Error(w, "render categories overview error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleArchives(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/archives" && r.URL.Path != "/archives/" {
		s.handleNotFound(w, r)
		return
	}
	coll := s.collection()
	if coll == nil {
		s.handleNotFound(w, r)
		return
	}

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

	htmlBytes, err := s.tpl.RenderArchives(r.Context(), render.ArchivesPage{
		Site:   s.cfg.Site,
		Groups: groups,
		Total:  coll.Len(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("render archives")
		http.Error(w, "render archives error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), render.NotFoundPage{
		Site: s.cfg.Site,
		Path: r.URL.Path,
	})
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
