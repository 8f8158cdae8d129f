// Package xlsx writes summary reports as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sportsschool/internal/domain/report"
)

// ContentType is the MIME type of a workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename returns the download name of a report, e.g. "attendance_2026-02-01_2026-03-02.xlsx".
func Filename(rep report.Report) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", rep.Kind, rep.Range.From, rep.Range.To)
}

type sheetLayout struct {
	name    string
	headers []any
	row     func(report.Row) []any
}

func layoutFor(kind string) (sheetLayout, error) {
	switch kind {
	case report.KindAttendance:
		return sheetLayout{
			name:    "Attendance",
			headers: []any{"Group", "Sessions", "Present", "Attendance rate (%)"},
			row: func(r report.Row) []any {
				return []any{r.Label, r.Sessions, r.Present, round1(r.AttendanceRate)}
			},
		}, nil
	case report.KindFinance:
		return sheetLayout{
			name:    "Finance",
			headers: []any{"Month", "Invoiced", "Paid", "Outstanding"},
			row: func(r report.Row) []any {
				return []any{r.Label, dollars(r.Invoiced), dollars(r.Paid), dollars(r.Outstanding)}
			},
		}, nil
	default:
		return sheetLayout{}, report.ErrUnknownKind
	}
}

// WriteReport renders rep as a single-sheet workbook: a title line, a bold
// header row, one row per report row and a bold totals row.
// PRE: rep.Kind is a known report kind
// POST: a complete .xlsx document is written to w
func WriteReport(w io.Writer, rep report.Report) error {
	layout, err := layoutFor(rep.Kind)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", layout.name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	title := fmt.Sprintf("%s report %s to %s", layout.name, rep.Range.From, rep.Range.To)
	if err := f.SetCellValue(layout.name, "A1", title); err != nil {
		return err
	}
	if err := setRow(f, layout.name, 3, layout.headers, bold); err != nil {
		return err
	}
	line := 4
	for _, r := range rep.Rows {
		if err := setRow(f, layout.name, line, layout.row(r), 0); err != nil {
			return err
		}
		line++
	}
	if err := setRow(f, layout.name, line, layout.row(rep.Totals), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(layout.name, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(layout.name, "B", "D", 18); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, line int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", line, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), line)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
