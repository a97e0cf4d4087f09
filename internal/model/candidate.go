package model

import "time"

// Score is the confidence weight attached to a date candidate. Higher means
// the date came from a more syntactically explicit, less ambiguous pattern.
type Score int

const (
	ScoreNone     Score = 0  // No date found
	ScoreYearOnly Score = 2  // Bare 4-digit year with no day/month context
	ScoreLoose    Score = 5  // Ambiguous short date, compact filename date, month+year without day
	ScoreNumeric  Score = 10 // Full numeric date or day+month-name+year
	ScoreLabeled  Score = 30 // Date introduced by an explicit label or letterhead phrasing
)

func (s Score) String() string {
	switch s {
	case ScoreYearOnly:
		return "year-only"
	case ScoreLoose:
		return "loose"
	case ScoreNumeric:
		return "numeric"
	case ScoreLabeled:
		return "labeled"
	default:
		return "none"
	}
}

// Candidate is a calendar date paired with the confidence score of the
// pattern that produced it.
type Candidate struct {
	Date    time.Time `json:"date"`
	Score   Score     `json:"score"`
	Pattern string    `json:"pattern,omitempty"` // Which matcher produced it (e.g. "numeric-dmy")
}

// BeforeYearMonth reports whether a is chronologically no later than b,
// comparing only year and month. Day precision is deliberately ignored
// everywhere candidates are ranked.
func BeforeYearMonth(a, b time.Time) bool {
	return a.Year() < b.Year() || (a.Year() == b.Year() && a.Month() <= b.Month())
}

// LatestByYearMonth returns the chronologically latest date in dates by
// (year, month), or false for an empty slice.
func LatestByYearMonth(dates []time.Time) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}
	best := dates[0]
	for _, d := range dates[1:] {
		if BeforeYearMonth(best, d) {
			best = d
		}
	}
	return best, true
}
