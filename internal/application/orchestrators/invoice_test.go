package orchestrators

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"sportsschool/internal/domain/invoice"
	"sportsschool/internal/domain/student"
	"sportsschool/internal/domain/validation"
)

func invoiceID(i invoice.Invoice) string { return i.ID }

func invoiceTestStudents() *memStore[student.Student] {
	return newMemStore(studentID,
		student.Student{ID: "s1", Name: "Ben Carter", Email: "ben@example.com", Status: student.StatusActive},
		student.Student{ID: "s2", Name: "Chloe Wu", Status: student.StatusActive},
	)
}

func saveInvoiceDeps(store *memStore[invoice.Invoice]) SaveInvoiceDeps {
	return SaveInvoiceDeps{
		InvoiceStore:   store,
		StudentStore:   invoiceTestStudents(),
		GenerateID:     fixedID,
		GenerateNumber: func() string { return "INV-TEST0001" },
		Now:            fixedNow,
	}
}

// TestNewInvoiceNumber verifies the number format.
func TestNewInvoiceNumber(t *testing.T) {
	if n := NewInvoiceNumber(); !regexp.MustCompile(`^INV-[0-9A-F]{8}$`).MatchString(n) {
		t.Errorf("unexpected invoice number %q", n)
	}
}

// TestExecuteSaveInvoice_CreatesDraft verifies amount parsing and student name resolution.
func TestExecuteSaveInvoice_CreatesDraft(t *testing.T) {
	store := newMemStore(invoiceID)
	inv, err := ExecuteSaveInvoice(context.Background(), SaveInvoiceInput{
		StudentID: "s1", Description: "Winter fees", Amount: "1,045.5", DueDate: "2026-03-15",
	}, saveInvoiceDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.AmountCents != 104550 || inv.Status != invoice.StatusDraft || inv.Number != "INV-TEST0001" {
		t.Errorf("unexpected invoice: %+v", inv)
	}
	if inv.StudentName != "Ben Carter" {
		t.Errorf("expected student name resolved, got %q", inv.StudentName)
	}
}

// TestExecuteSaveInvoice_FieldErrors verifies bad amount, date and student are reported together.
func TestExecuteSaveInvoice_FieldErrors(t *testing.T) {
	store := newMemStore(invoiceID)
	_, err := ExecuteSaveInvoice(context.Background(), SaveInvoiceInput{
		StudentID: "ghost", Description: "Fees", Amount: "-5", DueDate: "15/03/2026",
	}, saveInvoiceDeps(store))
	fields, ok := validation.FieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	for _, key := range []string{"amount", "due_date", "student_id"} {
		if fields[key] == "" {
			t.Errorf("expected %s error, got %v", key, fields)
		}
	}
	if store.saves != 0 {
		t.Error("invalid invoice must not be saved")
	}
}

// TestExecuteSaveInvoice_OnlyDrafts verifies issued invoices cannot be edited.
func TestExecuteSaveInvoice_OnlyDrafts(t *testing.T) {
	store := newMemStore(invoiceID, invoice.Invoice{ID: "i1", StudentID: "s1", Status: invoice.StatusIssued})
	_, err := ExecuteSaveInvoice(context.Background(), SaveInvoiceInput{
		ID: "i1", StudentID: "s1", Description: "Fees", Amount: "10", DueDate: "2026-03-15",
	}, saveInvoiceDeps(store))
	if !errors.Is(err, ErrInvalidTransition) || !errors.Is(err, invoice.ErrNotDraft) {
		t.Errorf("expected wrapped ErrNotDraft, got %v", err)
	}
}

// TestExecuteSetInvoiceStatus verifies the lifecycle transitions.
func TestExecuteSetInvoiceStatus(t *testing.T) {
	store := newMemStore(invoiceID, invoice.Invoice{ID: "i1", Status: invoice.StatusDraft})
	deps := SetInvoiceStatusDeps{InvoiceStore: store, Now: fixedNow}
	ctx := context.Background()

	if _, err := ExecuteSetInvoiceStatus(ctx, SetStatusInput{ID: "i1", Action: invoice.ActionMarkPaid}, deps); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("draft cannot be paid, got %v", err)
	}
	inv, err := ExecuteSetInvoiceStatus(ctx, SetStatusInput{ID: "i1", Action: invoice.ActionIssue}, deps)
	if err != nil || inv.Status != invoice.StatusIssued || !inv.IssuedAt.Equal(fixedTime) {
		t.Fatalf("issue = %+v, %v", inv, err)
	}
	inv, err = ExecuteSetInvoiceStatus(ctx, SetStatusInput{ID: "i1", Action: invoice.ActionMarkPaid}, deps)
	if err != nil || inv.Status != invoice.StatusPaid {
		t.Fatalf("mark paid = %+v, %v", inv, err)
	}
	if _, err := ExecuteSetInvoiceStatus(ctx, SetStatusInput{ID: "i1", Action: invoice.ActionVoid}, deps); !errors.Is(err, invoice.ErrCannotVoid) {
		t.Errorf("paid cannot be voided, got %v", err)
	}
	if _, err := ExecuteSetInvoiceStatus(ctx, SetStatusInput{ID: "i1", Action: "refund"}, deps); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

// TestExecuteRemindInvoice verifies a reminder is emailed and recorded.
func TestExecuteRemindInvoice(t *testing.T) {
	store := newMemStore(invoiceID,
		invoice.Invoice{ID: "i1", Number: "INV-1", StudentID: "s1", Description: "Fees", AmountCents: 4550, DueDate: "2026-02-01", Status: invoice.StatusIssued},
		invoice.Invoice{ID: "i2", Number: "INV-2", StudentID: "s2", Status: invoice.StatusIssued},
		invoice.Invoice{ID: "i3", Number: "INV-3", StudentID: "s1", Status: invoice.StatusDraft},
	)
	sender := &mockSender{}
	deps := RemindInvoiceDeps{
		InvoiceStore:  memInvoiceStore{store},
		StudentStore:  invoiceTestStudents(),
		SettingsStore: &mockSettingsStore{},
		Sender:        sender,
		Now:           fixedNow,
	}
	ctx := context.Background()

	inv, err := ExecuteRemindInvoice(ctx, RemindInvoiceInput{ID: "i1"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.RemindedAt.Equal(fixedTime) || !store.items["i1"].RemindedAt.Equal(fixedTime) {
		t.Error("expected RemindedAt to be recorded")
	}
	if len(sender.sent) != 1 || sender.sent[0].To[0] != "ben@example.com" {
		t.Fatalf("unexpected sends: %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].HTML, "<strong>NZD 45.50</strong>") {
		t.Errorf("expected rendered amount in body, got %q", sender.sent[0].HTML)
	}

	if _, err := ExecuteRemindInvoice(ctx, RemindInvoiceInput{ID: "i2"}, deps); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
	if _, err := ExecuteRemindInvoice(ctx, RemindInvoiceInput{ID: "i3"}, deps); !errors.Is(err, invoice.ErrNotRemindable) {
		t.Errorf("expected ErrNotRemindable, got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("failed reminders must not send, got %d sends", len(sender.sent))
	}
}

// TestExecuteRemindOverdue verifies the sweep skips recent reminders and missing recipients.
func TestExecuteRemindOverdue(t *testing.T) {
	store := newMemStore(invoiceID,
		invoice.Invoice{ID: "due", StudentID: "s1", DueDate: "2026-02-01", Status: invoice.StatusIssued},
		invoice.Invoice{ID: "recent", StudentID: "s1", DueDate: "2026-02-01", Status: invoice.StatusIssued, RemindedAt: fixedTime.Add(-24 * time.Hour)},
		invoice.Invoice{ID: "future", StudentID: "s1", DueDate: "2026-04-01", Status: invoice.StatusIssued},
		invoice.Invoice{ID: "norecipient", StudentID: "s2", DueDate: "2026-02-01", Status: invoice.StatusIssued},
		invoice.Invoice{ID: "paid", StudentID: "s1", DueDate: "2026-02-01", Status: invoice.StatusPaid},
	)
	sender := &mockSender{}
	sent, err := ExecuteRemindOverdue(context.Background(), RemindInvoiceDeps{
		InvoiceStore:  memInvoiceStore{store},
		StudentStore:  invoiceTestStudents(),
		SettingsStore: &mockSettingsStore{},
		Sender:        sender,
		Now:           fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 || len(sender.sent) != 1 {
		t.Fatalf("expected exactly one reminder, got %d", sent)
	}
	if !store.items["due"].RemindedAt.Equal(fixedTime) {
		t.Error("expected the overdue invoice to be marked reminded")
	}
}
