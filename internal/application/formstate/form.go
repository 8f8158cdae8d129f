package formstate

import (
	"context"
	"errors"
	"sync"
)

// SummaryInvalid is the banner shown when local validation fails.
const SummaryInvalid = "Please correct the highlighted fields."

var (
	// ErrSaveInProgress is returned by BeginSave while another save is running.
	ErrSaveInProgress = errors.New("save already in progress")
	// ErrInvalid is returned by Save when local validation fails.
	ErrInvalid = errors.New("form has validation errors")
)

// Validator checks a draft and returns field errors keyed by field name.
type Validator func(Values) map[string]string

// Persister sends a validated draft to the backend.
type Persister func(ctx context.Context, draft Values) error

// Form is the live state of one open form. It is safe for concurrent use.
type Form struct {
	mu      sync.Mutex
	schema  Schema
	initial Values
	draft   Values
	errors  map[string]string
	banner  string
	saving  bool
}

// New opens a form on initial, the snapshot loaded from the backend or the
// create defaults.
// POST: Draft equals initial; IsDirty is false
func New(schema Schema, initial Values) *Form {
	if initial == nil {
		initial = Values{}
	}
	return &Form{
		schema:  schema,
		initial: initial.Clone(),
		draft:   initial.Clone(),
		errors:  map[string]string{},
	}
}

// Schema returns the form's field declaration.
func (f *Form) Schema() Schema {
	return f.schema
}

// Draft returns a copy of the live draft.
func (f *Form) Draft() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// Initial returns a copy of the snapshot the draft is compared against.
func (f *Form) Initial() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initial.Clone()
}

// UpdateField replaces one field of the draft.
// POST: The field's error and the banner are cleared
func (f *Form) UpdateField(key string, values ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateLocked(key, values)
}

// Update applies every declared field of values to the draft.
func (f *Form) Update(values Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.schema.Fields {
		if vs, ok := values[key]; ok {
			f.updateLocked(key, vs)
		}
	}
}

func (f *Form) updateLocked(key string, values []string) {
	f.draft.Set(key, values...)
	delete(f.errors, key)
	f.banner = ""
}

// IsDirty reports whether the draft differs from the snapshot.
func (f *Form) IsDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.schema.Equal(f.initial, f.draft)
}

// Errors returns a copy of the field errors.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Banner returns the form-level error message, if any.
func (f *Form) Banner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// SetErrors records field errors and the summary banner.
func (f *Form) SetErrors(fields map[string]string, banner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = make(map[string]string, len(fields))
	for k, v := range fields {
		f.errors[k] = v
	}
	f.banner = banner
}

// SetBanner records a form-level error message and keeps field errors.
func (f *Form) SetBanner(banner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = banner
}

// Saving reports whether a save is in flight.
func (f *Form) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// BeginSave marks a save in flight.
// POST: Returns ErrSaveInProgress if one is already running
func (f *Form) BeginSave() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saving {
		return ErrSaveInProgress
	}
	f.saving = true
	return nil
}

// EndSave clears the in-flight mark.
func (f *Form) EndSave() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saving = false
}

// Commit makes saved the new snapshot.
func (f *Form) Commit(saved Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initial = saved.Clone()
	f.errors = map[string]string{}
	f.banner = ""
}

// Save validates the draft and persists it.
// On validation failure the field errors and banner are set, ErrInvalid is
// returned and persist is never called. On success the saved draft becomes
// the snapshot. A persist error is returned unchanged for the caller to
// classify; the draft stays dirty.
// PRE: validate and persist are non-nil
// POST: At most one Save runs at a time per Form
func (f *Form) Save(ctx context.Context, validate Validator, persist Persister) error {
	if err := f.BeginSave(); err != nil {
		return err
	}
	defer f.EndSave()
	return f.save(ctx, validate, persist)
}

// Submit applies submitted to the draft and saves it. The update happens
// inside the in-flight section, so a submit rejected with ErrSaveInProgress
// leaves the draft as the running save sees it.
// PRE: validate and persist are non-nil
func (f *Form) Submit(ctx context.Context, submitted Values, validate Validator, persist Persister) error {
	if err := f.BeginSave(); err != nil {
		return err
	}
	defer f.EndSave()
	f.Update(submitted)
	return f.save(ctx, validate, persist)
}

// save runs validation and persistence.
// PRE: the caller holds the in-flight mark
func (f *Form) save(ctx context.Context, validate Validator, persist Persister) error {
	draft := f.Draft()
	if errs := validate(draft); len(errs) > 0 {
		f.SetErrors(errs, SummaryInvalid)
		return ErrInvalid
	}
	if err := persist(ctx, draft); err != nil {
		return err
	}
	f.Commit(draft)
	return nil
}
