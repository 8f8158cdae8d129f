package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/invoice"
	"sportsschool/internal/application/listview"
	domainInvoice "sportsschool/internal/domain/invoice"
)

// GetInvoiceListQuery carries query parameters.
type GetInvoiceListQuery struct {
	List      listview.State
	StudentID string
}

// GetInvoiceListDeps holds dependencies for GetInvoiceList.
type GetInvoiceListDeps struct {
	InvoiceStore InvoiceStore
}

// QueryGetInvoiceList returns one page of invoices with student names resolved.
// PRE: query.List came from listview.ParseState
// POST: Returns at most PageSize invoices, latest due date first unless sorted
func QueryGetInvoiceList(ctx context.Context, query GetInvoiceListQuery, deps GetInvoiceListDeps) (Page[domainInvoice.Invoice], error) {
	filter := invoice.ListFilter{
		Search:    query.List.Query,
		Status:    query.List.Status,
		StudentID: query.StudentID,
		Sort:      query.List.Sort,
		Dir:       query.List.Dir,
	}
	return paginate(ctx, query.List,
		func(ctx context.Context) (int, error) { return deps.InvoiceStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainInvoice.Invoice, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.InvoiceStore.List(ctx, f)
		})
}
