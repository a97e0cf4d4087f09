// Package organize places files into the year/month destination hierarchy
// built from inference results. Files are copied, never moved: the source
// tree is the only authoritative copy of recovered data.
package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/normalize"
)

// Recorder persists one placement, so the run can be summarized and undone.
type Recorder interface {
	Record(source, destination, title string) error
}

// Organizer copies inferred files into the destination hierarchy.
type Organizer struct {
	cfg      model.OrganizeConfig
	recorder Recorder // may be nil
	verbose  bool
}

// NewOrganizer builds an organizer. The recorder may be nil, in which case
// placements are not persisted.
func NewOrganizer(cfg model.OrganizeConfig, recorder Recorder, verbose bool) *Organizer {
	return &Organizer{cfg: cfg, recorder: recorder, verbose: verbose}
}

// Place copies src to its inferred destination and returns the destination
// path. In dry-run mode the destination is computed and returned but nothing
// is written.
func (o *Organizer) Place(src string, res model.InferenceResult, ft model.FileType) (string, error) {
	dir := filepath.Join(o.cfg.OutputDir, res.Year, res.Month)
	if !o.cfg.DryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create destination dir: %w", err)
		}
	}

	var name string
	if o.cfg.Keep {
		name = filepath.Base(src)
	} else {
		name = o.destName(src, res.Title, ft)
	}

	dst := uniquePath(filepath.Join(dir, name))
	o.logf("%s -> %s", src, dst)
	if o.cfg.DryRun {
		return dst, nil
	}

	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	if o.recorder != nil {
		if err := o.recorder.Record(src, dst, res.Title); err != nil {
			return "", fmt.Errorf("record placement: %w", err)
		}
	}
	return dst, nil
}

func (o *Organizer) logf(format string, args ...any) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// destName builds the sanitized destination filename from the inferred
// title. A file whose title boiled down to nothing keeps its own stem.
func (o *Organizer) destName(src, title string, ft model.FileType) string {
	name := normalize.SanitizeFilename(title, true)
	name = normalize.CollapseUnderscores(name)
	if maxLen := o.cfg.TitleMaxLen; maxLen > 0 && len(name) > maxLen {
		name = name[:maxLen]
	}
	if name == "" || name == "_" {
		base := filepath.Base(src)
		name = normalize.SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)), true)
	}
	return name + "." + ft.OutputExtension()
}

// uniquePath suffixes _NN until the path does not exist.
func uniquePath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for count := 1; ; count++ {
		if _, err := os.Stat(path); err != nil {
			return path
		}
		path = fmt.Sprintf("%s_%02d%s", base, count, ext)
	}
}

// copyFile copies src to dst, carrying the source's timestamps over when it
// can. Timestamps are informational; a failed Chtimes does not undo the copy.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	if info, err := os.Stat(src); err == nil {
		_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	}
	return nil
}
