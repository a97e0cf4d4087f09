// Package normalize cleans decoded text lines and builds safe filenames.
// Recovered files arrive with OCR artifacts, stray control characters and
// unsafe names; every other component works on normalized output.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpacedLetter = regexp.MustCompile(` (\w) `)
	reHyphenRun    = regexp.MustCompile(`--+`)
	reDotRun       = regexp.MustCompile(`\.\.+`)
	reSpaceRun     = regexp.MustCompile(`\s\s+`)
)

// Clean normalizes one raw decoded line: control characters are dropped,
// OCR letter-spacing ("S a l u t" -> "Salut") is repaired, runs of hyphens,
// periods and whitespace collapse to single instances, and the ellipsis
// glyph is removed.
func Clean(line string) string {
	line = strings.Map(func(r rune) rune {
		if r == 0 || unicode.IsControl(r) {
			return -1
		}
		return r
	}, line)
	line = strings.TrimSpace(line)
	line = reSpacedLetter.ReplaceAllString(line, "$1")
	line = strings.ReplaceAll(line, "…", "")
	line = reHyphenRun.ReplaceAllString(line, "-")
	line = reDotRun.ReplaceAllString(line, ".")
	line = reSpaceRun.ReplaceAllString(line, " ")
	return line
}

// accentFolder strips combining marks after NFD decomposition, so
// "ça c'est sûr" transliterates to "ca c'est sur".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents transliterates accented characters to their ASCII base form.
// Input that fails to transform is returned unchanged.
func FoldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}
