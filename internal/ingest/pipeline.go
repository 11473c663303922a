package ingest

import (
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/trapx25/inkwell/internal/domain/content"
)

// Warning is an advisory finding that does not abort the build.
type Warning struct {
	Path string
	Msg  string
}

type result struct {
	Path string
	Post content.Post
	Warn []Warning
	Skip bool
	Err  error
}

type Options struct {
	SourceDir string
	Location  *time.Location

	// Now and IncludeFuture control whether posts dated after the build
	// time make it into the result.
	Now           time.Time
	IncludeFuture bool
}

// Ingest loads, parses and validates every source document under
// opt.SourceDir. Per-document work runs on a worker pool; the returned
// slice is sorted (date descending, identifier ascending) so the outcome
// does not depend on scheduling. Any document error fails the whole pass.
func Ingest(opt Options) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(opt.SourceDir, opt.Location)
	if err != nil {
		return nil, nil, err
	}
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- processOne(sf, opt)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var (
		out     []content.Post
		warns   []Warning
		firstEr error
		errPath string
	)
	for r := range results {
		if r.Err != nil {
			// keep the error of the lexicographically smallest path so
			// the reported failure is deterministic
			if firstEr == nil || r.Path < errPath {
				firstEr, errPath = r.Err, r.Path
			}
			continue
		}
		warns = append(warns, r.Warn...)
		if r.Skip {
			continue
		}
		out = append(out, r.Post)
	}
	if firstEr != nil {
		return nil, nil, firstEr
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Meta, out[j].Meta
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})
	sort.Slice(warns, func(i, j int) bool { return warns[i].Path < warns[j].Path })

	return out, warns, nil
}

func processOne(sf SourceFile, opt Options) result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return result{Path: sf.Path, Err: err}
	}

	fm, body, err := ParseFrontMatter(sf.Path, raw)
	if err != nil {
		return result{Path: sf.Path, Err: err}
	}

	post, err := BuildPost(sf, fm, body, raw, opt.Location)
	if err != nil {
		return result{Path: sf.Path, Err: err}
	}

	var warns []Warning
	if len(post.Body) == 0 {
		warns = append(warns, Warning{Path: sf.Path, Msg: "body is empty"})
	}
	if !opt.IncludeFuture && post.Meta.Date.After(opt.Now) {
		warns = append(warns, Warning{Path: sf.Path, Msg: "future-dated post skipped"})
		return result{Path: sf.Path, Warn: warns, Skip: true}
	}

	return result{Path: sf.Path, Post: post, Warn: warns}
}
