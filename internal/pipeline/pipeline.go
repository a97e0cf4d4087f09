// Package pipeline assembles the inference engine from its collaborators:
// exiftool tag lookup, rendition cache, conversion tools, date scanner,
// title extractor and the optional LLM title polish.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/refileproj/refile/internal/cache"
	"github.com/refileproj/refile/internal/datescan"
	"github.com/refileproj/refile/internal/filetype"
	"github.com/refileproj/refile/internal/infer"
	"github.com/refileproj/refile/internal/llm"
	"github.com/refileproj/refile/internal/metadata"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/render"
	"github.com/refileproj/refile/internal/title"
	"github.com/refileproj/refile/internal/worker"
)

// Pipeline owns the wired inference engine and its shared resources.
type Pipeline struct {
	engine   *infer.Engine
	store    *cache.Store
	polisher llm.Provider // nil if disabled
	config   *model.Config
}

// New wires a pipeline from the given configuration.
func New(cfg *model.Config) (*Pipeline, error) {
	scanner := datescan.New(cfg.Dates)

	var store *cache.Store
	var err error
	if cfg.Cache.Dir != "" {
		store, err = cache.NewStore(cfg.Cache.Dir, false, cfg.Cache.MemoryTTL)
	} else {
		store, err = cache.NewTempStore(cfg.Cache.MemoryTTL)
		if err == nil {
			fmt.Fprintf(os.Stderr, "Notice: will save text renditions in %s\n", store.Dir())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open rendition cache: %w", err)
	}

	tags := metadata.NewExifTool()
	limiter := worker.NewLimiter(cfg.Tools.RatePerSecond, cfg.Tools.Burst)
	converter := render.NewConverter(store, limiter, cfg.Tools, cfg.Output.Verbose)
	resolver := metadata.NewResolver(tags, scanner)
	classifier := filetype.NewClassifier(tags)
	titles := title.NewExtractor(cfg.Dates)

	engine := infer.NewEngine(classifier, resolver, converter, scanner, titles,
		cfg.Dates.ScanLines, cfg.Output.Verbose)

	var polisher llm.Provider
	if cfg.LLM.Provider != "" {
		polisher, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		}
	}

	return &Pipeline{
		engine:   engine,
		store:    store,
		polisher: polisher,
		config:   cfg,
	}, nil
}

// Infer runs the inference chain for one file.
func (p *Pipeline) Infer(ctx context.Context, path string) (model.InferenceResult, model.FileType) {
	return p.engine.Infer(ctx, path)
}

// Store exposes the rendition cache for lifecycle commands.
func (p *Pipeline) Store() *cache.Store { return p.store }

// Polish returns a display-friendly form of an inferred title. It is purely
// cosmetic: the placement path is already decided when this runs. Any
// failure returns the title unchanged.
func (p *Pipeline) Polish(ctx context.Context, path string, res model.InferenceResult) string {
	if p.polisher == nil || res.Title == "" {
		return res.Title
	}

	req := llm.PolishRequest{Title: res.Title}
	if rendition, ok := p.store.Lookup(cache.Key(stem(path))); ok {
		req.Snippet = headOfFile(rendition, 2048)
	}

	polished, err := p.polisher.Polish(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: title polish failed: %v\n", err)
		return res.Title
	}
	return polished.Title
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// headOfFile reads at most n bytes from the start of path.
func headOfFile(path string, n int) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	buf, err := io.ReadAll(io.LimitReader(f, int64(n)))
	if err != nil {
		return ""
	}
	return string(buf)
}
