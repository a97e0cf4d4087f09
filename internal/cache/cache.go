// Package cache stores text renditions of recovered files. Renditions are
// expensive (OCR, office conversions), so they live as plain UTF-8 .txt
// files in a cache directory that can be inspected, pre-seeded with manual
// OCR output, and reused across runs. A small memory index in front skips
// repeated disk probes within one run.
package cache

import (
	"github.com/refileproj/refile/internal/normalize"
)

// Key derives the cache key for a recovered file from its basename, with
// the extension dropped and the name sanitized. Each input file owns a
// unique key, so no locking is needed around its rendition.
func Key(stem string) string {
	return normalize.SanitizeFilename(stem, true)
}
