package web

import (
	"context"
	"net/url"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/application/formsession"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/invoice"
	"sportsschool/internal/domain/validation"
)

const actionRemind = "remind"

var invoiceList = listDef{
	Path:     "/invoices",
	Title:    "Invoices",
	NewLabel: "New invoice",
	ViewCap:  access.ViewFinance,
	EditCap:  access.EditInvoices,
	Statuses: invoice.Statuses,
	SortKeys: invoice.SortKeys,
	Columns: []column{
		{Label: "Number", Sort: "number"},
		{Label: "Student", Sort: "student"},
		{Label: "Description"},
		{Label: "Amount", Sort: "amount"},
		{Label: "Due", Sort: "due_date"},
		{Label: "Status", Sort: "status"},
	},
	Fetch: func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error) {
		p, err := c.ListInvoices(ctx, q)
		if err != nil {
			return listPage{}, err
		}
		now := timeNow()
		rows := make([]listRow, len(p.Items))
		for i, inv := range p.Items {
			status := humanize(inv.Status)
			if inv.IsOverdue(now) {
				status = "Overdue"
			}
			row := listRow{
				ID:     inv.ID,
				Cells:  []string{inv.Number, inv.StudentName, inv.Description, invoice.FormatAmount(inv.AmountCents), inv.DueDate, status},
				Status: inv.Status,
			}
			switch inv.Status {
			case invoice.StatusDraft:
				row.Actions = []rowAction{
					{Action: invoice.ActionIssue, Label: "Issue", Confirm: "Issue " + inv.Number + "? It can no longer be edited afterwards."},
					{Action: invoice.ActionVoid, Label: "Void", Confirm: "Void " + inv.Number + "? This cannot be undone.", Danger: true},
				}
			case invoice.StatusIssued:
				row.Actions = []rowAction{
					{Action: invoice.ActionMarkPaid, Label: "Mark paid", Confirm: "Record payment of " + invoice.FormatAmount(inv.AmountCents) + " for " + inv.Number + "?"},
					{Action: actionRemind, Label: "Send reminder", Confirm: "Email a payment reminder for " + inv.Number + "?"},
					{Action: invoice.ActionVoid, Label: "Void", Confirm: "Void " + inv.Number + "? This cannot be undone.", Danger: true},
				}
			}
			rows[i] = row
		}
		return listPage{Rows: rows, Total: p.Total, Page: p.Page, PageSize: p.PageSize}, nil
	},
	Act: func(ctx context.Context, c *backend.Client, id, action string) error {
		var err error
		if action == actionRemind {
			_, err = c.RemindInvoice(ctx, id)
		} else {
			_, err = c.SetInvoiceStatus(ctx, id, action)
		}
		return err
	},
}

var invoiceFields = []field{
	{Name: "student_id", Label: "Student", Type: fieldSelect, Choices: "student_id", Required: true},
	{Name: "description", Label: "Description", Type: fieldText, Required: true},
	{Name: "amount", Label: "Amount", Type: fieldText, Required: true, Help: "For example 45.50"},
	{Name: "due_date", Label: "Due date", Type: fieldDate, Required: true},
}

var invoiceForm = registerForm(formDef{
	Kind:     "invoice",
	Title:    "Invoice",
	ListPath: "/invoices",
	EditCap:  access.EditInvoices,
	Fields:   invoiceFields,
	Open: func(ctx context.Context, c *backend.Client, id string, _ url.Values) (openedForm, error) {
		students, err := studentChoices(ctx, c)
		if err != nil {
			return openedForm{}, err
		}
		out := openedForm{
			Schema:  schemaOf(invoiceFields),
			Values:  formstate.Values{},
			Choices: map[string][]formsession.Choice{"student_id": students},
		}
		if id == "" {
			return out, nil
		}
		inv, err := c.GetInvoice(ctx, id)
		if err != nil {
			return openedForm{}, err
		}
		out.Values = formstate.Values{
			"student_id":  {inv.StudentID},
			"description": {inv.Description},
			"amount":      {invoice.FormatAmount(inv.AmountCents)},
			"due_date":    {inv.DueDate},
		}
		return out, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		inv := invoice.Invoice{
			StudentID:   v.Get("student_id"),
			Description: v.Get("description"),
			DueDate:     v.Get("due_date"),
			Status:      invoice.StatusDraft,
		}
		cents, err := invoice.ParseAmount(v.Get("amount"))
		if err != nil {
			inv.AmountCents = 1
			return mergeErrors(validation.Struct(&inv), map[string]string{"amount": err.Error()})
		}
		inv.AmountCents = cents
		return mergeErrors(validation.Struct(&inv), nil)
	},
	Persist: func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error {
		_, err := c.SaveInvoice(ctx, id, backend.InvoiceInput{
			StudentID:   v.Get("student_id"),
			Description: v.Get("description"),
			Amount:      v.Get("amount"),
			DueDate:     v.Get("due_date"),
		})
		return err
	},
})
