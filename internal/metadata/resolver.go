// Package metadata resolves dates and titles from embedded metadata tags.
// Tag values arrive in wildly inconsistent formats, so every value runs
// through an ordered list of known layouts before falling back to the broad
// free-text date search.
package metadata

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/refileproj/refile/internal/datescan"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/normalize"
)

// TagSource looks up one metadata tag for a file. Implementations return
// false when the tag is absent or the lookup fails; they never panic across
// this boundary.
type TagSource interface {
	Tag(path, name string) (string, bool)
}

// Resolver extracts dates and titles from a file's metadata tags.
type Resolver struct {
	tags    TagSource
	scanner *datescan.Scanner
}

// NewResolver builds a resolver over the given tag source. The scanner
// provides the free-text fallback for unparseable tag values.
func NewResolver(tags TagSource, scanner *datescan.Scanner) *Resolver {
	return &Resolver{tags: tags, scanner: scanner}
}

// ResolveDate consults the category's tag list in priority order. The first
// tag yielding any result short-circuits the rest: its value is parsed
// against the known layouts, and if none fits, the free-text search over the
// raw value takes the chronologically latest hit. A month of 0 means the
// date carried no month precision.
func (r *Resolver) ResolveDate(path string, cat model.Category) (year, month int, ok bool) {
	for _, tag := range searchTags(cat) {
		value, found := r.tags.Tag(path, tag)
		if !found || value == "" {
			continue
		}

		if d, parsed := r.parseTagValue(value); parsed {
			return d.Year(), int(d.Month()), true
		}

		if d, found := r.scanner.SearchLatest(value); found {
			if d.Month() == time.January && d.Day() == 1 {
				return d.Year(), 0, true
			}
			return d.Year(), int(d.Month()), true
		}
		// A date tag whose value defeats both the layouts and the search is
		// rare; move on to the next tag.
	}
	return 0, 0, false
}

// parseTagValue tries the ordered layouts against the date portion of a tag
// value (time-of-day suffixes are dropped). Parses outside the plausible
// range are discarded as if the layout had not matched.
func (r *Resolver) parseTagValue(value string) (time.Time, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return time.Time{}, false
	}

	for _, tl := range tagLayouts {
		candidate := fields[0]
		if n := strings.Count(tl.layout, " ") + 1; n > 1 {
			if len(fields) < n {
				continue
			}
			candidate = strings.Join(fields[:n], " ")
		}

		d, err := time.Parse(tl.layout, candidate)
		if err != nil {
			continue
		}
		if tl.shortYear && d.Year() > r.scanner.Reference().Year() {
			// The layout's fixed pivot overshot; resolve to the earlier century.
			d = d.AddDate(-100, 0, 0)
		}
		if r.plausible(d) {
			return d, true
		}
	}
	return time.Time{}, false
}

func (r *Resolver) plausible(d time.Time) bool {
	return d.Year() >= r.scanner.MinYear() && model.BeforeYearMonth(d, r.scanner.Reference())
}

// ResolveTitle returns the file's Title tag when it is substantial enough
// to use: present, at least 3 characters, and not already embedded (in
// sanitized form) in the filename.
func (r *Resolver) ResolveTitle(path string) (string, bool) {
	title, found := r.tags.Tag(path, "Title")
	if !found || len(title) < 3 {
		return "", false
	}
	if strings.Contains(filepath.Base(path), normalize.SanitizeFilename(title, true)) {
		return "", false
	}
	return title, true
}

// Author returns the Author tag, if any.
func (r *Resolver) Author(path string) (string, bool) {
	return r.tags.Tag(path, "Author")
}

// Creator returns the Creator tag truncated to 10 characters; mostly
// meaningful for PDFs, where it names the producing application.
func (r *Resolver) Creator(path string) (string, bool) {
	creator, found := r.tags.Tag(path, "Creator")
	if !found {
		return "", false
	}
	if runes := []rune(creator); len(runes) > 10 {
		creator = string(runes[:10])
	}
	return creator, true
}
