// Package datescan turns noisy text lines into scored date candidates.
// An ordered battery of matchers is applied to each line; the first matcher
// that produces a plausible date wins and its fixed confidence score is
// attached. Dates after the reference processing date or before the minimum
// year are treated as if no date was found.
package datescan

import (
	"regexp"
	"strconv"
	"time"

	"github.com/refileproj/refile/internal/model"
)

// matcher is one pure date-pattern strategy.
type matcher struct {
	name string
	fn   func(line string) (time.Time, model.Score, bool)
}

// Scanner applies the date-pattern cascade under fixed plausibility bounds.
type Scanner struct {
	reference time.Time
	minYear   int

	monthIndex map[string]time.Month
	patterns   []matcher

	reIssuedAt   *regexp.Regexp
	reDateLabel  *regexp.Regexp
	reDatePrefix *regexp.Regexp
	reNumeric    *regexp.Regexp
	reMonthName  *regexp.Regexp
	reCompact    *regexp.Regexp
	reYear       *regexp.Regexp
}

// New builds a Scanner for the given date bounds and languages.
func New(cfg model.DatesConfig) *Scanner {
	monthAlt, monthIndex := monthVocabulary(cfg.Languages)
	minYear := cfg.MinYear
	if minYear <= 0 {
		minYear = 1900
	}

	s := &Scanner{
		reference:  cfg.Reference(),
		minYear:    minYear,
		monthIndex: monthIndex,

		// "Rennes, le 3 janvier 2018" letterhead phrasing (French).
		reIssuedAt: regexp.MustCompile(`(?i)(fait|,)\s+le\s+(\d+.+?\b(?:19|20)\d{2}\b)`),
		// "Date: 3 novembre 2018. Signé: moi" with an unambiguous 4-digit year.
		reDateLabel: regexp.MustCompile(`(?i)\bdate\s*:\s*(\d+.+?\b(?:19|20)\d{2}\b)`),
		// "Date: 3/11/18 ..." label followed by anything; the remainder goes
		// through the broad free-text search.
		reDatePrefix: regexp.MustCompile(`(?i)\bdate\s*:\s*`),
		// "03/12/18", "2001-1-23". Go regexp has no backreferences, so both
		// separators are captured and compared in code.
		reNumeric: regexp.MustCompile(`\b(\d{1,4})\s*([/\-:.])\s*(\d{1,2})\s*([/\-:.])\s*(\d{2}\b|\b(?:19|20)\d{2}\b)`),
		// "MERCREDI 18 FEVRIER 1998", "mai 2017".
		reMonthName: regexp.MustCompile(`(?i)(\d*)\s*(` + monthAlt + `)\s+(\d{2}\b|\b(?:19|20)\d{2}\b)`),
		// "Screenshot_20230504_164636.png".
		reCompact: regexp.MustCompile(`[_\- ]((?:19|20)\d{2})(\d{2})(\d{2})[_\-. ]`),
		// Bare plausible year anywhere.
		reYear: regexp.MustCompile(`\b((?:19|20)\d{2})\b`),
	}

	s.patterns = []matcher{
		{"issued-at", s.matchIssuedAt},
		{"date-label", s.matchDateLabel},
		{"date-label-loose", s.matchDateLabelLoose},
		{"numeric-dmy", s.matchNumeric},
		{"month-name", s.matchMonthName},
		{"compact", s.matchCompact},
		{"bare-year", s.matchBareYear},
	}
	return s
}

// Reference returns the reference processing date the scanner rejects
// future dates against.
func (s *Scanner) Reference() time.Time { return s.reference }

// MinYear returns the oldest year the scanner accepts.
func (s *Scanner) MinYear() int { return s.minYear }

// Match applies the pattern cascade to one normalized line and returns the
// first candidate produced, or false if no pattern matched.
func (s *Scanner) Match(line string) (model.Candidate, bool) {
	for _, p := range s.patterns {
		if d, score, ok := p.fn(line); ok {
			return model.Candidate{Date: d, Score: score, Pattern: p.name}, true
		}
	}
	return model.Candidate{}, false
}

func (s *Scanner) matchIssuedAt(line string) (time.Time, model.Score, bool) {
	m := s.reIssuedAt.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, model.ScoreNone, false
	}
	if d, ok := s.parseDayFirst(m[2]); ok {
		return d, model.ScoreLabeled, true
	}
	return time.Time{}, model.ScoreNone, false
}

func (s *Scanner) matchDateLabel(line string) (time.Time, model.Score, bool) {
	m := s.reDateLabel.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, model.ScoreNone, false
	}
	if d, ok := s.parseDayFirst(m[1]); ok {
		return d, model.ScoreLabeled, true
	}
	return time.Time{}, model.ScoreNone, false
}

func (s *Scanner) matchDateLabelLoose(line string) (time.Time, model.Score, bool) {
	loc := s.reDatePrefix.FindStringIndex(line)
	if loc == nil {
		return time.Time{}, model.ScoreNone, false
	}
	// The free-text search is expensive and noisy, so it only ever runs on
	// text following an explicit "Date:" label.
	if dates := s.Search(line[loc[1]:]); len(dates) > 0 {
		return dates[0], model.ScoreLoose, true
	}
	return time.Time{}, model.ScoreNone, false
}

func (s *Scanner) matchNumeric(line string) (time.Time, model.Score, bool) {
	for _, m := range s.reNumeric.FindAllStringSubmatch(line, -1) {
		if m[2] != m[4] { // mixed separators are not a date
			continue
		}
		if d, ok := s.resolveNumeric(m[1], m[3], m[5]); ok {
			return d, model.ScoreNumeric, true
		}
	}
	return time.Time{}, model.ScoreNone, false
}

// resolveNumeric interprets positional day/month/year fields in DMY order.
// A 4-digit "day" that looks like a year means the fields arrived YMD, so
// day and year are swapped.
func (s *Scanner) resolveNumeric(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)

	if day/100 == 19 || day/100 == 20 {
		day, year = year, day
	}
	year = s.completeYear(year)
	if !s.validDate(day, month, year) {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !model.BeforeYearMonth(d, s.reference) {
		return time.Time{}, false
	}
	return d, true
}

func (s *Scanner) matchMonthName(line string) (time.Time, model.Score, bool) {
	m := s.reMonthName.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, model.ScoreNone, false
	}
	month, ok := monthByName(s.monthIndex, m[2])
	if !ok {
		return time.Time{}, model.ScoreNone, false
	}

	day := 1
	score := model.ScoreLoose // month+year only
	if m[1] != "" {
		day, _ = strconv.Atoi(m[1])
		score = model.ScoreNumeric
	}
	year := s.completeYear(atoi(m[3]))
	if !s.validDate(day, int(month), year) {
		return time.Time{}, model.ScoreNone, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if !model.BeforeYearMonth(d, s.reference) {
		return time.Time{}, model.ScoreNone, false
	}
	return d, score, true
}

func (s *Scanner) matchCompact(line string) (time.Time, model.Score, bool) {
	m := s.reCompact.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, model.ScoreNone, false
	}
	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if !s.validDate(day, month, year) {
		return time.Time{}, model.ScoreNone, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !model.BeforeYearMonth(d, s.reference) {
		return time.Time{}, model.ScoreNone, false
	}
	return d, model.ScoreLoose, true
}

func (s *Scanner) matchBareYear(line string) (time.Time, model.Score, bool) {
	if d, ok := s.FindYear(line); ok {
		return d, model.ScoreYearOnly, true
	}
	return time.Time{}, model.ScoreNone, false
}

// FindYear finds a plausible bare 4-digit year in the line: the largest year
// within [minYear, reference year]. The returned date is January 1st of that
// year, the marker for "no month precision".
func (s *Scanner) FindYear(line string) (time.Time, bool) {
	best := 0
	for _, m := range s.reYear.FindAllStringSubmatch(line, -1) {
		y := atoi(m[1])
		if y >= s.minYear && y <= s.reference.Year() && y > best {
			best = y
		}
	}
	if best == 0 {
		return time.Time{}, false
	}
	return time.Date(best, time.January, 1, 0, 0, 0, 0, time.UTC), true
}

// completeYear resolves a 2-digit year against the reference date. Years at
// or below reference%100 land in the 2000s, the rest in the 1900s, so an
// adversarial short year can never wrap past the reference century.
func (s *Scanner) completeYear(year int) int {
	if year < 100 {
		if year <= s.reference.Year()%100 {
			return year + 2000
		}
		return year + 1900
	}
	return year
}

// validDate checks simple range bounds. The day is not validated against
// the specific month's length; candidates only need to be plausible.
func (s *Scanner) validDate(day, month, year int) bool {
	return year >= s.minYear && year <= s.reference.Year() &&
		day >= 1 && day <= 31 &&
		month >= 1 && month <= 12
}

// parseDayFirst parses a date fragment in day-first order, trying the
// month-name form ("3 janvier 2018") and then the numeric form ("03/12/18").
func (s *Scanner) parseDayFirst(fragment string) (time.Time, bool) {
	if m := s.reMonthName.FindStringSubmatch(fragment); m != nil {
		if month, ok := monthByName(s.monthIndex, m[2]); ok {
			day := 1
			if m[1] != "" {
				day = atoi(m[1])
			}
			year := s.completeYear(atoi(m[3]))
			if s.validDate(day, int(month), year) {
				d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
				if model.BeforeYearMonth(d, s.reference) {
					return d, true
				}
			}
		}
	}
	for _, m := range s.reNumeric.FindAllStringSubmatch(fragment, -1) {
		if m[2] != m[4] {
			continue
		}
		if d, ok := s.resolveNumeric(m[1], m[3], m[5]); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// atoi converts a digit-only capture group; groups are numeric by
// construction so conversion cannot fail.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
