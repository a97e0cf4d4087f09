package datescan

import (
	"strings"
	"time"

	"github.com/refileproj/refile/internal/normalize"
)

// Month-name vocabularies. Alternations carry both accented and plain
// spellings because OCR output loses accents unpredictably.
var monthsFR = []string{
	"janvier", "f(?:é|e)vrier", "mars", "avril", "mai",
	"juin", "juillet", "ao(?:û|u)t",
	"septembre", "octobre", "novembre", "d(?:é|e)cembre",
}

var monthsEN = []string{
	"january", "february", "march", "april", "may",
	"june", "july", "august",
	"september", "october", "november", "december",
}

// monthVocabulary builds the regex alternation and the name->month lookup
// for the configured languages. Lookup keys are accent-folded lowercase.
func monthVocabulary(languages []string) (string, map[string]time.Month) {
	var patterns []string
	index := make(map[string]time.Month)

	add := func(names []string) {
		for i, name := range names {
			patterns = append(patterns, name)
			// Index the folded literal form ("fevrier", not the alternation).
			key := normalize.FoldAccents(stripAlternation(name))
			index[key] = time.Month(i + 1)
		}
	}

	for _, lang := range languages {
		switch strings.ToLower(lang) {
		case "fr":
			add(monthsFR)
		case "en":
			add(monthsEN)
		}
	}
	if len(patterns) == 0 {
		add(monthsFR)
		add(monthsEN)
	}
	return strings.Join(patterns, "|"), index
}

// stripAlternation reduces "f(?:é|e)vrier" to "février" so the folded form
// becomes the canonical lookup key.
func stripAlternation(pattern string) string {
	for {
		open := strings.Index(pattern, "(?:")
		if open < 0 {
			return pattern
		}
		close := strings.Index(pattern[open:], ")")
		if close < 0 {
			return pattern
		}
		group := pattern[open+3 : open+close]
		first, _, _ := strings.Cut(group, "|")
		pattern = pattern[:open] + first + pattern[open+close+1:]
	}
}

// monthByName resolves a matched month-name token, accent- and
// case-insensitively.
func monthByName(index map[string]time.Month, token string) (time.Month, bool) {
	m, ok := index[normalize.FoldAccents(strings.ToLower(token))]
	return m, ok
}
