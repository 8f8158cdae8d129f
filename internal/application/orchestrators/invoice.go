package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	emailAdapter "sportsschool/internal/adapters/email"
	"sportsschool/internal/adapters/storage"
	invoiceStore "sportsschool/internal/adapters/storage/invoice"
	"sportsschool/internal/domain/invoice"
	"sportsschool/internal/domain/settings"
	"sportsschool/internal/domain/student"
	"sportsschool/internal/domain/validation"
)

// InvoiceStoreForOrchestrator defines the store interface needed by invoice orchestrators.
type InvoiceStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (invoice.Invoice, error)
	Save(ctx context.Context, inv invoice.Invoice) error
}

// InvoiceStoreForReminders defines the store interface needed by the reminder orchestrators.
type InvoiceStoreForReminders interface {
	InvoiceStoreForOrchestrator
	List(ctx context.Context, filter invoiceStore.ListFilter) ([]invoice.Invoice, error)
}

// StudentLookup resolves the student an invoice or assessment refers to.
type StudentLookup interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// SchoolSettingsLookup reads the school settings used in outgoing email.
type SchoolSettingsLookup interface {
	GetSchool(ctx context.Context) (settings.School, error)
}

// ReminderInterval is the minimum gap between two reminders for one invoice
// in the overdue sweep.
const ReminderInterval = 7 * 24 * time.Hour

// ErrNoRecipient is returned when the invoiced student has no email address.
var ErrNoRecipient = errors.New("student has no email address to remind")

// NewInvoiceNumber returns a human-friendly invoice number such as INV-3F2A9C1B.
func NewInvoiceNumber() string {
	return "INV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// --- Save Invoice ---

// SaveInvoiceInput carries input for the save invoice orchestrator.
// Amount is the decimal string typed by the user.
type SaveInvoiceInput struct {
	ID          string `json:"-"`
	StudentID   string `json:"student_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	ActorID     string `json:"-"`
}

// SaveInvoiceDeps holds dependencies for SaveInvoice.
type SaveInvoiceDeps struct {
	InvoiceStore   InvoiceStoreForOrchestrator
	StudentStore   StudentLookup
	GenerateID     func() string
	GenerateNumber func() string
	Now            func() time.Time
}

// ExecuteSaveInvoice creates a draft invoice or updates one that is still a draft.
// PRE: For updates, the invoice exists
// POST: Invoice persisted as draft
// INVARIANT: Only draft invoices are edited; the student must exist
func ExecuteSaveInvoice(ctx context.Context, input SaveInvoiceInput, deps SaveInvoiceDeps) (invoice.Invoice, error) {
	now := deps.Now()

	var inv invoice.Invoice
	if input.ID == "" {
		inv = invoice.Invoice{
			ID:        deps.GenerateID(),
			Number:    deps.GenerateNumber(),
			Status:    invoice.StatusDraft,
			CreatedAt: now,
		}
	} else {
		existing, err := deps.InvoiceStore.GetByID(ctx, input.ID)
		if err != nil {
			return invoice.Invoice{}, err
		}
		if !existing.Editable() {
			return invoice.Invoice{}, fmt.Errorf("%w: %w", ErrInvalidTransition, invoice.ErrNotDraft)
		}
		inv = existing
	}

	inv.StudentID = strings.TrimSpace(input.StudentID)
	inv.Description = strings.TrimSpace(input.Description)
	inv.DueDate = strings.TrimSpace(input.DueDate)
	inv.UpdatedAt = now

	errs := validation.Errors{}
	cents, err := invoice.ParseAmount(input.Amount)
	if err != nil {
		errs.Add("amount", "Enter an amount such as 45.50")
	}
	inv.AmountCents = cents
	if verrs, ok := validation.FieldErrors(inv.Validate()); ok {
		for k, v := range verrs {
			errs.Add(k, v)
		}
	}
	if _, exists := errs["student_id"]; !exists {
		st, err := deps.StudentStore.GetByID(ctx, inv.StudentID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			errs.Add("student_id", "Unknown student")
		case err != nil:
			return invoice.Invoice{}, err
		default:
			inv.StudentName = st.Name
		}
	}
	if err := errs.Err(); err != nil {
		return invoice.Invoice{}, err
	}

	if err := deps.InvoiceStore.Save(ctx, inv); err != nil {
		return invoice.Invoice{}, err
	}

	slog.Info("invoice_event", "event", "invoice_saved", "invoice_id", inv.ID, "number", inv.Number, "amount_cents", inv.AmountCents, "actor", input.ActorID)
	return inv, nil
}

// --- Set Invoice Status ---

// SetInvoiceStatusDeps holds dependencies for SetInvoiceStatus.
type SetInvoiceStatusDeps struct {
	InvoiceStore InvoiceStoreForOrchestrator
	Now          func() time.Time
}

// ExecuteSetInvoiceStatus issues, marks paid or voids an invoice.
// PRE: ID names an existing invoice; Action is issue, mark_paid or void
// POST: Status changed and persisted, or ErrInvalidTransition returned
func ExecuteSetInvoiceStatus(ctx context.Context, input SetStatusInput, deps SetInvoiceStatusDeps) (invoice.Invoice, error) {
	if input.ID == "" {
		return invoice.Invoice{}, ErrIDRequired
	}
	inv, err := deps.InvoiceStore.GetByID(ctx, input.ID)
	if err != nil {
		return invoice.Invoice{}, err
	}

	now := deps.Now()
	if err := inv.Transition(input.Action, now); err != nil {
		if errors.Is(err, invoice.ErrUnknownAction) {
			return invoice.Invoice{}, ErrUnknownAction
		}
		return invoice.Invoice{}, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	inv.UpdatedAt = now

	if err := deps.InvoiceStore.Save(ctx, inv); err != nil {
		return invoice.Invoice{}, err
	}

	slog.Info("invoice_event", "event", "invoice_"+inv.Status, "invoice_id", inv.ID, "number", inv.Number, "actor", input.ActorID)
	return inv, nil
}

// --- Send Invoice Reminder ---

// RemindInvoiceInput carries input for the reminder orchestrator.
type RemindInvoiceInput struct {
	ID      string
	ActorID string
}

// RemindInvoiceDeps holds dependencies for RemindInvoice and RemindOverdue.
type RemindInvoiceDeps struct {
	InvoiceStore  InvoiceStoreForReminders
	StudentStore  StudentLookup
	SettingsStore SchoolSettingsLookup
	Sender        emailAdapter.Sender
	Now           func() time.Time
}

// ExecuteRemindInvoice emails a payment reminder for one issued invoice.
// PRE: ID names an existing issued invoice whose student has an email address
// POST: Reminder accepted by the provider; RemindedAt recorded
func ExecuteRemindInvoice(ctx context.Context, input RemindInvoiceInput, deps RemindInvoiceDeps) (invoice.Invoice, error) {
	if input.ID == "" {
		return invoice.Invoice{}, ErrIDRequired
	}
	inv, err := deps.InvoiceStore.GetByID(ctx, input.ID)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err := inv.CanRemind(); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}

	school, err := schoolSettings(ctx, deps.SettingsStore)
	if err != nil {
		return invoice.Invoice{}, err
	}
	req, err := reminderRequest(ctx, inv, school, deps.StudentStore)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		return invoice.Invoice{}, err
	}

	inv.RemindedAt = deps.Now()
	if err := deps.InvoiceStore.Save(ctx, inv); err != nil {
		return invoice.Invoice{}, err
	}

	slog.Info("invoice_event", "event", "invoice_reminded", "invoice_id", inv.ID, "number", inv.Number, "actor", input.ActorID)
	return inv, nil
}

// ExecuteRemindOverdue emails every overdue issued invoice not reminded within
// ReminderInterval, in one provider batch.
// POST: Returns the number of reminders sent; invoices without a recipient are skipped
func ExecuteRemindOverdue(ctx context.Context, deps RemindInvoiceDeps) (int, error) {
	now := deps.Now()
	issued, err := deps.InvoiceStore.List(ctx, invoiceStore.ListFilter{Status: invoice.StatusIssued})
	if err != nil {
		return 0, err
	}
	school, err := schoolSettings(ctx, deps.SettingsStore)
	if err != nil {
		return 0, err
	}

	var (
		due  []invoice.Invoice
		reqs []emailAdapter.SendRequest
	)
	for _, inv := range issued {
		if !inv.IsOverdue(now) || (!inv.RemindedAt.IsZero() && now.Sub(inv.RemindedAt) < ReminderInterval) {
			continue
		}
		req, err := reminderRequest(ctx, inv, school, deps.StudentStore)
		if errors.Is(err, ErrNoRecipient) {
			slog.Warn("invoice_event", "event", "reminder_skipped", "invoice_id", inv.ID, "reason", "no_recipient")
			continue
		}
		if err != nil {
			return 0, err
		}
		due = append(due, inv)
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return 0, nil
	}

	results, err := deps.Sender.SendBatch(ctx, reqs)
	sent := len(results)
	for i := 0; i < sent && i < len(due); i++ {
		due[i].RemindedAt = now
		if saveErr := deps.InvoiceStore.Save(ctx, due[i]); saveErr != nil {
			return i, saveErr
		}
	}
	if err != nil {
		return sent, err
	}

	slog.Info("invoice_event", "event", "overdue_reminders_sent", "count", sent)
	return sent, nil
}

func schoolSettings(ctx context.Context, store SchoolSettingsLookup) (settings.School, error) {
	school, err := store.GetSchool(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return settings.DefaultSchool(), nil
	}
	return school, err
}

func reminderRequest(ctx context.Context, inv invoice.Invoice, school settings.School, students StudentLookup) (emailAdapter.SendRequest, error) {
	st, err := students.GetByID(ctx, inv.StudentID)
	if err != nil {
		return emailAdapter.SendRequest{}, err
	}
	if st.Email == "" {
		return emailAdapter.SendRequest{}, ErrNoRecipient
	}

	body := fmt.Sprintf("Kia ora %s,\n\nThis is a reminder that invoice **%s** for %s is due on **%s**.\n\nAmount: **%s %s**\n\nThank you,\n%s",
		st.Name, inv.Number, inv.Description, inv.DueDate, school.Currency, invoice.FormatAmount(inv.AmountCents), school.SchoolName)
	html, err := emailAdapter.RenderMarkdown(body)
	if err != nil {
		return emailAdapter.SendRequest{}, err
	}
	return emailAdapter.SendRequest{
		To:      []string{st.Email},
		Subject: fmt.Sprintf("Payment reminder: %s", inv.Number),
		HTML:    html,
		Text:    body,
		ReplyTo: school.ContactEmail,
		Tags:    map[string]string{"kind": "invoice_reminder", "invoice_id": inv.ID},
	}, nil
}
