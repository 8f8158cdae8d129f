// Package report holds the read-only summary rows computed by the API.
package report

import (
	"errors"
	"time"

	"sportsschool/internal/domain/validation"
)

// Report kinds
const (
	KindAttendance = "attendance"
	KindFinance    = "finance"
)

// MaxRangeDays bounds a report query.
const MaxRangeDays = 366

// Domain errors
var (
	ErrRangeInverted = errors.New("report range ends before it starts")
	ErrRangeTooLong  = errors.New("report range cannot exceed one year")
	ErrUnknownKind   = errors.New("unknown report kind")
)

// Row is one line of a summary report. Attendance reports fill the session
// columns; finance reports fill the money columns (cents).
type Row struct {
	Label          string  `json:"label"`
	Sessions       int     `json:"sessions"`
	Present        int     `json:"present"`
	AttendanceRate float64 `json:"attendance_rate"`
	Invoiced       int64   `json:"invoiced"`
	Paid           int64   `json:"paid"`
	Outstanding    int64   `json:"outstanding"`
}

// Range is an inclusive date window in YYYY-MM-DD form.
type Range struct {
	From string `json:"from" form:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" form:"to" validate:"required,datetime=2006-01-02"`
}

// Report is a computed summary for one kind over one range.
type Report struct {
	Kind   string `json:"kind"`
	Range  Range  `json:"range"`
	Rows   []Row  `json:"rows"`
	Totals Row    `json:"totals"`
}

// ValidKind reports whether kind names a report the API can compute.
func ValidKind(kind string) bool {
	return kind == KindAttendance || kind == KindFinance
}

// Validate checks the range is well-formed, ordered and bounded.
// PRE: Range is populated from user input
// POST: Returns validation.Errors keyed by from/to, nil otherwise
func (r Range) Validate() error {
	if errs := validation.Struct(r); errs != nil {
		return errs
	}
	from, _ := time.Parse(validation.DateLayout, r.From)
	to, _ := time.Parse(validation.DateLayout, r.To)
	if to.Before(from) {
		return validation.Errors{"to": ErrRangeInverted.Error()}
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return validation.Errors{"to": ErrRangeTooLong.Error()}
	}
	return nil
}

// DefaultRange returns the 30 days ending on now's date.
func DefaultRange(now time.Time) Range {
	return Range{
		From: now.AddDate(0, 0, -29).Format(validation.DateLayout),
		To:   now.Format(validation.DateLayout),
	}
}

// Total sums rows into a totals line and recomputes the attendance rate
// weighted by sessions.
func Total(rows []Row) Row {
	t := Row{Label: "Total"}
	var weighted float64
	for _, r := range rows {
		t.Sessions += r.Sessions
		t.Present += r.Present
		t.Invoiced += r.Invoiced
		t.Paid += r.Paid
		t.Outstanding += r.Outstanding
		weighted += r.AttendanceRate * float64(r.Sessions)
	}
	if t.Sessions > 0 {
		t.AttendanceRate = weighted / float64(t.Sessions)
	}
	return t
}
