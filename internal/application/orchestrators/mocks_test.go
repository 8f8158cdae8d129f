package orchestrators

import (
	"context"
	"fmt"
	"time"

	emailAdapter "sportsschool/internal/adapters/email"
	"sportsschool/internal/adapters/storage"
	invoiceStore "sportsschool/internal/adapters/storage/invoice"
	"sportsschool/internal/domain/account"
	"sportsschool/internal/domain/invoice"
	"sportsschool/internal/domain/settings"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// memStore is an in-memory store keyed by entity ID.
type memStore[T any] struct {
	items map[string]T
	id    func(T) string
	saves int
}

func newMemStore[T any](id func(T) string, seed ...T) *memStore[T] {
	m := &memStore[T]{items: make(map[string]T), id: id}
	for _, v := range seed {
		m.items[id(v)] = v
	}
	return m
}

// GetByID returns the stored entity or a wrapped storage.ErrNotFound.
func (m *memStore[T]) GetByID(_ context.Context, id string) (T, error) {
	v, ok := m.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s: %w", id, storage.ErrNotFound)
	}
	return v, nil
}

// Save stores the entity under its ID.
func (m *memStore[T]) Save(_ context.Context, v T) error {
	m.saves++
	m.items[m.id(v)] = v
	return nil
}

// memInvoiceStore adds List to the generic store for the reminder sweep.
type memInvoiceStore struct {
	*memStore[invoice.Invoice]
}

// List returns invoices matching the status filter.
func (m memInvoiceStore) List(_ context.Context, f invoiceStore.ListFilter) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range m.items {
		if f.Status == "" || inv.Status == f.Status {
			out = append(out, inv)
		}
	}
	return out, nil
}

// memAccountStore keys accounts by email for login lookups.
type memAccountStore struct {
	byEmail map[string]account.Account
}

func newMemAccountStore(seed ...account.Account) *memAccountStore {
	m := &memAccountStore{byEmail: make(map[string]account.Account)}
	for _, a := range seed {
		m.byEmail[a.Email] = a
	}
	return m
}

// GetByEmail returns the account with email or ErrNotFound.
func (m *memAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return account.Account{}, storage.ErrNotFound
	}
	return a, nil
}

// Save stores the account under its email.
func (m *memAccountStore) Save(_ context.Context, a account.Account) error {
	m.byEmail[a.Email] = a
	return nil
}

// Count returns the number of stored accounts.
func (m *memAccountStore) Count(_ context.Context) (int, error) {
	return len(m.byEmail), nil
}

// mockSettingsStore serves the default school unless one is set.
type mockSettingsStore struct {
	school *settings.School
	prefs  map[string]settings.Preferences
}

// GetSchool returns the stored school or ErrNotFound.
func (m *mockSettingsStore) GetSchool(_ context.Context) (settings.School, error) {
	if m.school == nil {
		return settings.School{}, storage.ErrNotFound
	}
	return *m.school, nil
}

// SaveSchool stores the school.
func (m *mockSettingsStore) SaveSchool(_ context.Context, s settings.School) error {
	m.school = &s
	return nil
}

// SavePreferences stores preferences by account.
func (m *mockSettingsStore) SavePreferences(_ context.Context, p settings.Preferences) error {
	if m.prefs == nil {
		m.prefs = make(map[string]settings.Preferences)
	}
	m.prefs[p.AccountID] = p
	return nil
}

// mockSender records every request instead of delivering it.
type mockSender struct {
	sent []emailAdapter.SendRequest
	err  error
}

// Send records req.
func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	if m.err != nil {
		return emailAdapter.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: fmt.Sprintf("msg-%d", len(m.sent)), SentAt: fixedTime}, nil
}

// SendBatch records every request.
func (m *mockSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	var out []emailAdapter.SendResult
	for _, r := range reqs {
		res, err := m.Send(ctx, r)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}
