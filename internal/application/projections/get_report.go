package projections

import (
	"context"

	domainReport "sportsschool/internal/domain/report"
)

// GetReportQuery carries query parameters.
type GetReportQuery struct {
	Kind  string
	Range domainReport.Range
}

// GetReportDeps holds dependencies for GetReport.
type GetReportDeps struct {
	ReportStore ReportStore
}

// QueryGetReport computes one summary report with a totals row.
// PRE: none; kind and range are validated here
// POST: Returns ErrUnknownKind or validation.Errors for bad input
// INVARIANT: Rows is never nil
func QueryGetReport(ctx context.Context, query GetReportQuery, deps GetReportDeps) (domainReport.Report, error) {
	if !domainReport.ValidKind(query.Kind) {
		return domainReport.Report{}, domainReport.ErrUnknownKind
	}
	if err := query.Range.Validate(); err != nil {
		return domainReport.Report{}, err
	}

	var (
		rows []domainReport.Row
		err  error
	)
	switch query.Kind {
	case domainReport.KindAttendance:
		rows, err = deps.ReportStore.Attendance(ctx, query.Range)
	case domainReport.KindFinance:
		rows, err = deps.ReportStore.Finance(ctx, query.Range)
	}
	if err != nil {
		return domainReport.Report{}, err
	}
	if rows == nil {
		rows = []domainReport.Row{}
	}
	return domainReport.Report{
		Kind:   query.Kind,
		Range:  query.Range,
		Rows:   rows,
		Totals: domainReport.Total(rows),
	}, nil
}
