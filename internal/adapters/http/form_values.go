package web

import (
	"strconv"
	"strings"

	"sportsschool/internal/application/formsession"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/domain/validation"
)

// checkedValue is what a checked single checkbox submits.
const checkedValue = "on"

// choicesOf labels each value by title-casing it ("under-10" -> "Under 10").
func choicesOf(values []string) []formsession.Choice {
	out := make([]formsession.Choice, len(values))
	for i, v := range values {
		out[i] = formsession.Choice{Value: v, Label: humanize(v)}
	}
	return out
}

func humanize(v string) string {
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

func boolValues(b bool) []string {
	if b {
		return []string{checkedValue}
	}
	return nil
}

func isChecked(v formstate.Values, key string) bool {
	return v.Get(key) == checkedValue
}

// intField parses an integer field; a blank or malformed value reports ok=false.
func intField(v formstate.Values, key string) (int, bool) {
	n, err := strconv.Atoi(v.Get(key))
	return n, err == nil
}

// mergeErrors folds extra field errors into errs and returns the result.
func mergeErrors(errs validation.Errors, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		if len(errs) == 0 {
			return nil
		}
		return errs
	}
	out := map[string]string{}
	for k, msg := range errs {
		out[k] = msg
	}
	for k, msg := range extra {
		out[k] = msg
	}
	return out
}
