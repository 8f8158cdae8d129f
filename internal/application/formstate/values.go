// Package formstate tracks the draft of one open form against the snapshot
// it was loaded with.
package formstate

import (
	"net/url"
	"slices"
	"strings"
)

// Values holds form field values keyed by field name. Multi-value fields
// (checkbox groups, multi-selects) carry one entry per selected option.
type Values map[string][]string

// Get returns the first value of key, or "".
func (v Values) Get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// List returns every value of key.
func (v Values) List(key string) []string {
	return v[key]
}

// Set replaces the values of key.
func (v Values) Set(key string, values ...string) {
	v[key] = slices.Clone(values)
}

// Clone returns a deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, vs := range v {
		out[k] = slices.Clone(vs)
	}
	return out
}

// Schema declares the fields of a form.
// INVARIANT: SetFields is a subset of Fields
type Schema struct {
	Fields []string
	// SetFields compare as order-independent sets (audience, groups, specialties).
	SetFields []string
}

// IsSet reports whether key is declared as a set field.
func (s Schema) IsSet(key string) bool {
	return slices.Contains(s.SetFields, key)
}

// Has reports whether key is a declared field.
func (s Schema) Has(key string) bool {
	return slices.Contains(s.Fields, key)
}

// FromForm keeps only the declared fields of a submitted form. Single-value
// fields are trimmed; a declared field that was not submitted (an unchecked
// checkbox group) becomes empty.
func (s Schema) FromForm(form url.Values) Values {
	out := make(Values, len(s.Fields))
	for _, key := range s.Fields {
		vs := form[key]
		if s.IsSet(key) {
			out[key] = nonEmpty(vs)
			continue
		}
		if len(vs) == 0 {
			out[key] = nil
			continue
		}
		out[key] = []string{strings.TrimSpace(vs[0])}
	}
	return out
}

// Equal reports whether a and b hold the same value for every declared field.
// Missing and empty fields are equal; set fields ignore order and duplicates.
func (s Schema) Equal(a, b Values) bool {
	for _, key := range s.Fields {
		if !s.fieldEqual(key, a[key], b[key]) {
			return false
		}
	}
	return true
}

func (s Schema) fieldEqual(key string, a, b []string) bool {
	a, b = nonEmpty(a), nonEmpty(b)
	if !s.IsSet(key) {
		return slices.Equal(a, b)
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}

func nonEmpty(vs []string) []string {
	var out []string
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
