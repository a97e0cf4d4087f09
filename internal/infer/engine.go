// Package infer composes the metadata resolver, title extractor and date
// scanner into one best-effort (date, title) answer per recovered file. The
// engine always returns a result; every missing or malformed signal just
// moves the chain to its next fallback.
package infer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/refileproj/refile/internal/datescan"
	"github.com/refileproj/refile/internal/filetype"
	"github.com/refileproj/refile/internal/metadata"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/normalize"
	"github.com/refileproj/refile/internal/render"
	"github.com/refileproj/refile/internal/title"
)

const (
	// Author and creator tags are only worth consulting while the composed
	// title is still short; a substantial title needs no padding.
	authorThreshold  = 20
	creatorThreshold = 5
)

// Engine runs the full inference chain for one file at a time.
type Engine struct {
	classifier *filetype.Classifier
	resolver   *metadata.Resolver
	producer   render.Producer
	scanner    *datescan.Scanner
	titles     *title.Extractor
	scanLines  int
	verbose    bool
}

// NewEngine wires the inference chain over its collaborators.
func NewEngine(classifier *filetype.Classifier, resolver *metadata.Resolver,
	producer render.Producer, scanner *datescan.Scanner, titles *title.Extractor,
	scanLines int, verbose bool) *Engine {
	if scanLines <= 0 {
		scanLines = 200
	}
	return &Engine{
		classifier: classifier,
		resolver:   resolver,
		producer:   producer,
		scanner:    scanner,
		titles:     titles,
		scanLines:  scanLines,
		verbose:    verbose,
	}
}

// rendition defers the text rendition until a chain step actually needs
// it, then memoizes the answer. Metadata-rich files resolve their title
// and date from tags alone and never pay for conversion or OCR.
type rendition struct {
	produce func() (string, bool)
	done    bool
	path    string
	ok      bool
}

func (r *rendition) get() (string, bool) {
	if !r.done {
		r.path, r.ok = r.produce()
		r.done = true
	}
	return r.path, r.ok
}

// Infer resolves the best-guess year, month and title for path, along with
// the file's normalized type. One pass, terminal: a result is always
// returned, possibly with unknown year and an empty title.
func (e *Engine) Infer(ctx context.Context, path string) (model.InferenceResult, model.FileType) {
	ft := e.classifier.Classify(path)
	e.logf("%s classified as %q (category %s)", path, ft.Extension, ft.Category())

	rend := &rendition{produce: func() (string, bool) {
		return e.producer.Text(ctx, path, ft)
	}}

	composed := e.composeTitle(path, rend)
	e.logf("composed title %q", composed)

	if year, month, ok := e.resolver.ResolveDate(path, ft.Category()); ok {
		e.logf("date %d-%d from metadata tags", year, month)
		if month == 0 {
			return model.InferenceResult{Year: fmt.Sprintf("%d", year), Month: model.UnknownMonth, Title: composed}, ft
		}
		return model.ResultFromDate(time.Date(year, time.Month(month), 2, 0, 0, 0, 0, time.UTC), composed), ft
	}

	if c, ok := e.scanner.Match(normalize.Clean(composed)); ok {
		e.logf("date %s from title (pattern %s, score %s)", c.Date.Format("2006-01-02"), c.Pattern, c.Score)
		return model.ResultFromDate(c.Date, composed), ft
	}

	if c, ok := e.aggregateFile(rend); ok {
		e.logf("date %s from text rendition (pattern %s, score %s)", c.Date.Format("2006-01-02"), c.Pattern, c.Score)
		return model.ResultFromDate(c.Date, composed), ft
	}

	e.logf("no date signal for %s", path)
	return model.UnknownResult(composed), ft
}

// composeTitle builds the title from its fragments: filename stem (when it
// carries enough non-digit characters to mean something), the resolved or
// extracted title, and the author and creator tags as a last resort. The
// rendition is only produced when the Title tag comes up empty.
func (e *Engine) composeTitle(path string, rend *rendition) string {
	found, ok := e.resolver.ResolveTitle(path)
	if !ok {
		if r, has := rend.get(); has {
			found, _ = e.titles.Extract(r)
		}
	}

	fragments := []string{}
	if s := stem(path); meaningfulStem(s) {
		fragments = append(fragments, s)
	}
	if found != "" {
		fragments = append(fragments, found)
	}
	if len(found) < authorThreshold {
		if author, ok := e.resolver.Author(path); ok && author != "" {
			fragments = append(fragments, author)
		}
	}
	if len(found) < creatorThreshold {
		if creator, ok := e.resolver.Creator(path); ok && creator != "" {
			fragments = append(fragments, creator)
		}
	}
	return strings.Join(fragments, "-")
}

// aggregateFile runs the date scanner over the rendition's line window,
// producing the rendition now if no earlier step needed it.
func (e *Engine) aggregateFile(rend *rendition) (model.Candidate, bool) {
	path, ok := rend.get()
	if !ok {
		return model.Candidate{}, false
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Candidate{}, false
	}
	defer f.Close()
	return e.scanner.Aggregate(f, e.scanLines)
}

// meaningfulStem reports whether a filename stem is worth keeping as a title
// prefix: recovery tools emit numeric stems that carry no information.
func meaningfulStem(s string) bool {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			n++
		}
	}
	return n >= 2
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (e *Engine) logf(format string, args ...any) {
	if e.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
