package normalize

import (
	"regexp"
	"strings"
)

var (
	reUnsafe        = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	rePaddedZeros   = regexp.MustCompile(`_00+`)
	reUnderscoreRun = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename turns an arbitrary string into a safe filesystem name:
// spaces become underscores, accents are optionally transliterated, anything
// outside [A-Za-z0-9._-] becomes an underscore, and the "_000..." zero
// padding that recovery tools inject into names is removed. The function is
// idempotent.
func SanitizeFilename(s string, foldAccents bool) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "\x00", "")
	if foldAccents {
		s = FoldAccents(s)
	}
	s = reUnsafe.ReplaceAllString(s, "_")
	s = rePaddedZeros.ReplaceAllString(s, "")
	return s
}

// CollapseUnderscores reduces runs of underscores to a single one. Applied
// to composed titles before they become filenames.
func CollapseUnderscores(s string) string {
	return reUnderscoreRun.ReplaceAllString(s, "_")
}
