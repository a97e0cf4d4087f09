// Package title mines a probable document title from the first lines of a
// text rendition. Titles cluster near the top of documents and are
// reasonably text-dense; a year-bearing line is a weak fallback common in
// institutional documents (letterheads, cover pages).
package title

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"unicode"

	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/normalize"
)

const (
	pass1Lines  = 12 // First pass never reads further than this
	strongCount = 40 // A single line this dense is the title on its own
	accumTarget = 50 // Cumulative density that makes the accumulated lines a title
)

var reYearToken = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Extractor scans text renditions for a probable title.
type Extractor struct {
	minYear int
	maxYear int
}

// NewExtractor builds an extractor with the configured year plausibility
// bounds for the fallback pass.
func NewExtractor(cfg model.DatesConfig) *Extractor {
	minYear := cfg.MinYear
	if minYear <= 0 {
		minYear = 1900
	}
	return &Extractor{minYear: minYear, maxYear: cfg.Reference().Year()}
}

// Extract returns the probable title of the rendition at path, or false if
// neither pass found one. The file is read twice at most: the second,
// year-seeking pass only runs when the first pass comes up empty.
func (e *Extractor) Extract(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	title, ok := e.firstLines(f)
	f.Close()
	if ok {
		return title, true
	}

	f, err = os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	return e.yearLine(f)
}

// firstLines is pass 1: scan up to pass1Lines cleaned lines; a single dense
// line wins immediately, otherwise lines accumulate until their combined
// word-character count crosses accumTarget.
func (e *Extractor) firstLines(r io.Reader) (string, bool) {
	scanner := bufio.NewScanner(r)
	accum := ""
	total := 0
	for i := 0; i < pass1Lines && scanner.Scan(); i++ {
		line := normalize.Clean(scanner.Text())
		n := wordChars(line)
		if n > strongCount {
			return line, true
		}
		if i == 0 {
			accum = line
		} else {
			accum += " " + line
		}
		total += n
		if total > accumTarget {
			return accum, true
		}
	}
	return "", false
}

// yearLine is pass 2: the first line bearing a plausible 4-digit year.
func (e *Extractor) yearLine(r io.Reader) (string, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := normalize.Clean(scanner.Text())
		m := reYearToken.FindString(line)
		if m == "" {
			continue
		}
		y, _ := strconv.Atoi(m)
		if y >= e.minYear && y <= e.maxYear {
			return line, true
		}
	}
	return "", false
}

// wordChars counts letters, digits and underscores, the rough measure of
// how much actual text a line carries.
func wordChars(line string) int {
	n := 0
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			n++
		}
	}
	return n
}
