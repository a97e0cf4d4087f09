package datescan

import (
	"bufio"
	"io"

	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/normalize"
)

// Aggregate scans up to lineCap lines of a text rendition, matching every
// line against the cascade, and reduces the candidates to a single best
// date. Each hit's score is added to the line counter, so a document full
// of strong matches is cut short: the evidence near the top is enough.
func (s *Scanner) Aggregate(r io.Reader, lineCap int) (model.Candidate, bool) {
	var candidates []model.Candidate

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		count++
		if count > lineCap {
			break
		}
		line := normalize.Clean(scanner.Text())
		if c, ok := s.Match(line); ok {
			candidates = append(candidates, c)
			count += int(c.Score)
		}
	}
	// A read error mid-file leaves the candidates gathered so far; partial
	// renditions are the normal case for recovered files.

	return Reduce(candidates)
}

// Reduce picks the winning candidate: among those sharing the maximum
// score, the chronologically latest by (year, month). Day precision never
// participates in the comparison.
func Reduce(candidates []model.Candidate) (model.Candidate, bool) {
	if len(candidates) == 0 {
		return model.Candidate{}, false
	}

	maxScore := model.ScoreNone
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}

	var best model.Candidate
	found := false
	for _, c := range candidates {
		if c.Score != maxScore {
			continue
		}
		if !found || model.BeforeYearMonth(best.Date, c.Date) {
			best = c
			found = true
		}
	}
	return best, found
}
