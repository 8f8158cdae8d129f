package invoice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sportsschool/internal/domain/validation"
)

// Invoice statuses
const (
	StatusDraft  = "draft"
	StatusIssued = "issued"
	StatusPaid   = "paid"
	StatusVoid   = "void"
)

// Statuses lists every invoice status in lifecycle order.
var Statuses = []string{StatusDraft, StatusIssued, StatusPaid, StatusVoid}

// Actions accepted by Transition.
const (
	ActionIssue    = "issue"
	ActionMarkPaid = "mark_paid"
	ActionVoid     = "void"
)

// MaxAmountCents caps a single invoice at one million in the school's currency.
const MaxAmountCents = 100_000_000

// Domain errors
var (
	ErrNotDraft      = errors.New("only draft invoices can be changed")
	ErrNotIssued     = errors.New("only issued invoices can be marked paid")
	ErrCannotVoid    = errors.New("paid or void invoices cannot be voided")
	ErrUnknownAction = errors.New("unknown invoice action")
	ErrInvalidAmount = errors.New("amount must be a positive number with at most two decimals")
	ErrNotRemindable = errors.New("only issued invoices can be reminded")
)

// Invoice is a fee charged to one student.
// Amounts are integer cents.
type Invoice struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	StudentID   string    `json:"student_id" form:"student_id" validate:"required"`
	StudentName string    `json:"student_name,omitempty"`
	Description string    `json:"description" form:"description" validate:"required,max=200"`
	AmountCents int64     `json:"amount_cents" form:"amount" validate:"gt=0,lte=100000000"`
	DueDate     string    `json:"due_date" form:"due_date" validate:"required,datetime=2006-01-02"`
	Status      string    `json:"status" validate:"oneof=draft issued paid void"`
	IssuedAt    time.Time `json:"issued_at"`
	PaidAt      time.Time `json:"paid_at"`
	RemindedAt  time.Time `json:"reminded_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the Invoice has valid data.
// PRE: Invoice struct is populated
// POST: Returns validation.Errors if validation fails, nil otherwise
func (i *Invoice) Validate() error {
	return validation.Struct(i).Err()
}

// Editable reports whether the invoice's fields may still change.
func (i *Invoice) Editable() bool {
	return i.Status == StatusDraft
}

// IsOverdue returns true if the invoice is issued and past its due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status != StatusIssued {
		return false
	}
	due, err := time.Parse(validation.DateLayout, i.DueDate)
	if err != nil {
		return false
	}
	return now.After(due.AddDate(0, 0, 1))
}

// Issue moves a draft invoice to issued.
// PRE: Status is draft
// POST: Status is issued, IssuedAt is set
func (i *Invoice) Issue(now time.Time) error {
	if i.Status != StatusDraft {
		return ErrNotDraft
	}
	i.Status = StatusIssued
	i.IssuedAt = now
	return nil
}

// MarkPaid records payment of an issued invoice.
// PRE: Status is issued
// POST: Status is paid, PaidAt is set
func (i *Invoice) MarkPaid(now time.Time) error {
	if i.Status != StatusIssued {
		return ErrNotIssued
	}
	i.Status = StatusPaid
	i.PaidAt = now
	return nil
}

// Void cancels a draft or issued invoice.
// PRE: Status is draft or issued
// POST: Status is void
func (i *Invoice) Void() error {
	if i.Status != StatusDraft && i.Status != StatusIssued {
		return ErrCannotVoid
	}
	i.Status = StatusVoid
	return nil
}

// Transition applies a named lifecycle action.
func (i *Invoice) Transition(action string, now time.Time) error {
	switch action {
	case ActionIssue:
		return i.Issue(now)
	case ActionMarkPaid:
		return i.MarkPaid(now)
	case ActionVoid:
		return i.Void()
	default:
		return ErrUnknownAction
	}
}

// CanRemind reports whether a payment reminder may be sent.
func (i *Invoice) CanRemind() error {
	if i.Status != StatusIssued {
		return ErrNotRemindable
	}
	return nil
}

// ParseAmount converts a decimal string such as "45", "45.5" or "1,045.50" to cents.
// PRE: s is user input
// POST: Returns a positive cent amount or ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if w > MaxAmountCents/100 {
		return 0, ErrInvalidAmount
	}
	cents := w*100 + f
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatAmount renders cents as a plain decimal string, e.g. 4550 -> "45.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// SortKeys are the list columns an invoice list may be sorted by.
var SortKeys = []string{"number", "due_date", "amount", "status", "student"}
