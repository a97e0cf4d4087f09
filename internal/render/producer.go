// Package render produces plain UTF-8 text renditions of recovered files.
// Each supported file type has a conversion strategy (direct copy, external
// tool, OCR) and every rendition lands in the cache so a re-run (or a
// manually pre-seeded OCR result) is picked up instead of recomputed.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/refileproj/refile/internal/cache"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/worker"
)

// Producer yields a path to the UTF-8 text rendition of a file, or false
// when no rendition can be produced. Implementations are idempotent for the
// same (file, type) pair and never panic across this boundary.
type Producer interface {
	Text(ctx context.Context, path string, ft model.FileType) (string, bool)
}

// Converter is the standard Producer: it dispatches on the normalized file
// type and shells out to the conversion tools the recovery pipeline relies
// on (pdftotext, tesseract, libreoffice, pandoc, mutool).
type Converter struct {
	store   *cache.Store
	limiter *worker.Limiter
	tools   model.ToolsConfig
	verbose bool
}

// NewConverter builds a converter writing renditions into store.
func NewConverter(store *cache.Store, limiter *worker.Limiter, tools model.ToolsConfig, verbose bool) *Converter {
	return &Converter{store: store, limiter: limiter, tools: tools, verbose: verbose}
}

// Store exposes the underlying rendition cache (for lifecycle commands).
func (c *Converter) Store() *cache.Store { return c.store }

// Text implements Producer.
func (c *Converter) Text(ctx context.Context, path string, ft model.FileType) (string, bool) {
	key := cache.Key(stem(path))
	if cached, ok := c.store.Lookup(key); ok {
		c.logf("using already generated %s", cached)
		return cached, true
	}

	out, err := c.convert(ctx, path, ft, key)
	if err != nil || out == "" {
		c.logf("no text rendition for %s: %v", path, err)
		return "", false
	}
	c.store.Remember(key, out)
	return out, true
}

// convert runs the per-type strategy. An unsupported type is not an error,
// just an absent rendition.
func (c *Converter) convert(ctx context.Context, path string, ft model.FileType, key string) (string, error) {
	switch {
	case ft.Extension == "pdf" || ft.Extension == "ai":
		return c.pdfToText(ctx, path, key)
	case ft.Extension == "doc":
		return c.officeToText(ctx, path, key)
	case ft.Extension == "tar":
		return c.tarListing(path, key)
	case ft.Extension == "zip":
		return c.zipListing(path, key)
	case ft.IsText():
		return c.textToUTF8(path, key, ft.Encoding)
	case ft.Extension == "mbox":
		return c.mboxToText(path, key)
	case ft.Extension == "ods" || ft.Extension == "xls" || ft.Extension == "xlsx":
		return c.sheetToText(ctx, path, key)
	case ft.Extension == "docx" || ft.Extension == "docm" || ft.Extension == "rtf" || ft.Extension == "odt":
		return c.pandocToText(ctx, path, key)
	case ft.Extension == "html" || ft.Extension == "htm":
		return c.htmlToText(ctx, path, key)
	case ft.Extension == "png" || ft.Extension == "jpg" || ft.Extension == "jpeg" ||
		ft.Extension == "gif" || ft.Extension == "bmp" || ft.Extension == "tif" || ft.Extension == "tiff":
		return c.imageToText(ctx, path, key)
	case ft.Extension == "ppt" || ft.Extension == "pptx" || ft.Extension == "odg":
		return c.slidesToText(ctx, path, key)
	default:
		return "", fmt.Errorf("file type %q not supported", ft.Extension)
	}
}

// runTool invokes an external tool under the per-tool rate limit.
func (c *Converter) runTool(ctx context.Context, tool string, args ...string) error {
	if err := c.limiter.Wait(ctx, tool); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, tool, args...)
	if c.verbose {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}

func (c *Converter) logf(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// stem returns the basename without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
