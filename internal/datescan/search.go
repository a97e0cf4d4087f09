package datescan

import (
	"sort"
	"time"

	"github.com/refileproj/refile/internal/model"
)

// Search runs the broad multi-date search over free text and returns every
// plausible date found, in order of appearance. It is deliberately not part
// of the cascade except behind a "Date:" label, and as a last resort on
// metadata tag values no known format could parse: it finds many false
// positives on arbitrary prose.
func (s *Scanner) Search(text string) []time.Time {
	type hit struct {
		pos  int
		date time.Time
	}
	var hits []hit

	for _, idx := range s.reNumeric.FindAllStringSubmatchIndex(text, -1) {
		day := text[idx[2]:idx[3]]
		sep1 := text[idx[4]:idx[5]]
		month := text[idx[6]:idx[7]]
		sep2 := text[idx[8]:idx[9]]
		year := text[idx[10]:idx[11]]
		if sep1 != sep2 {
			continue
		}
		if d, ok := s.resolveNumeric(day, month, year); ok {
			hits = append(hits, hit{idx[0], d})
		}
	}

	for _, idx := range s.reMonthName.FindAllStringSubmatchIndex(text, -1) {
		month, ok := monthByName(s.monthIndex, text[idx[4]:idx[5]])
		if !ok {
			continue
		}
		day := 1
		if idx[2] != idx[3] {
			day = atoi(text[idx[2]:idx[3]])
		}
		year := s.completeYear(atoi(text[idx[6]:idx[7]]))
		if !s.validDate(day, int(month), year) {
			continue
		}
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if !model.BeforeYearMonth(d, s.reference) {
			continue
		}
		hits = append(hits, hit{idx[0], d})
	}

	for _, idx := range s.reCompact.FindAllStringSubmatchIndex(text, -1) {
		year := atoi(text[idx[2]:idx[3]])
		month := atoi(text[idx[4]:idx[5]])
		day := atoi(text[idx[6]:idx[7]])
		if !s.validDate(day, month, year) {
			continue
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if !model.BeforeYearMonth(d, s.reference) {
			continue
		}
		hits = append(hits, hit{idx[0], d})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	dates := make([]time.Time, 0, len(hits))
	for _, h := range hits {
		dates = append(dates, h.date)
	}
	return dates
}

// SearchLatest returns the chronologically latest date found by Search,
// comparing year and month only.
func (s *Scanner) SearchLatest(text string) (time.Time, bool) {
	return model.LatestByYearMonth(s.Search(text))
}
