package model

import (
	"fmt"
	"time"
)

// Placeholder path components for files whose date could not be inferred.
const (
	UnknownYear  = "Unknown_year"
	UnknownMonth = "Unknown_month"
)

// InferenceResult is the engine's answer for one file: a best-guess year and
// month for the destination hierarchy and a probable human-readable title.
// It is created once per file and immutable afterwards.
type InferenceResult struct {
	Year  string `json:"year"`            // "2018" or UnknownYear
	Month string `json:"month"`           // "05", "" (year unknown) or UnknownMonth
	Title string `json:"title,omitempty"` // Proposed title, may be empty
}

// Known reports whether a year was inferred at all.
func (r InferenceResult) Known() bool {
	return r.Year != UnknownYear && r.Year != ""
}

// ResultFromDate converts an inferred date into the year/month strings used
// for placement. A January 1st date is the bare-year marker: the month is
// reported as unknown because the pattern had no month precision.
func ResultFromDate(d time.Time, title string) InferenceResult {
	res := InferenceResult{
		Year:  fmt.Sprintf("%d", d.Year()),
		Title: title,
	}
	if d.Month() == time.January && d.Day() == 1 {
		res.Month = UnknownMonth
	} else {
		res.Month = fmt.Sprintf("%02d", int(d.Month()))
	}
	return res
}

// UnknownResult builds the result for a file with no detectable date.
func UnknownResult(title string) InferenceResult {
	return InferenceResult{Year: UnknownYear, Month: "", Title: title}
}
