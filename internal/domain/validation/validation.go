package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to a human-readable problem with that field.
// A nil or empty Errors means the value is valid.
type Errors map[string]string

// Error implements the error interface with a stable, sorted rendering.
func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem for field unless one is already recorded.
// PRE: e is non-nil
// POST: e[field] is set if it was empty
func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// Err returns e as an error, or nil when there are no problems.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// FieldErrors extracts the field map from err, if err carries one.
func FieldErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// PhonePattern accepts international and local numbers with spaces, dashes and parentheses.
var PhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,19}$`)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return PhonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates v against its `validate` tags and returns field-scoped errors
// keyed by the `form` tag (falling back to the `json` tag).
// PRE: v is a struct or pointer to struct
// POST: Returns nil when valid
func Struct(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"_": err.Error()}
	}
	out := Errors{}
	for _, fe := range verrs {
		out.Add(fieldKey(fe.Namespace()), message(fe))
	}
	return out
}

// fieldKey maps a namespace such as "Session.marks[0].status" onto the top-level
// form field ("marks").
func fieldKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	if i := strings.IndexAny(namespace, "[."); i >= 0 {
		return namespace[:i]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Enter a valid email address"
	case "phone":
		return "Enter a valid phone number"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			if fe.Param() == "1" {
				return "Select at least one option"
			}
			return fmt.Sprintf("Select at least %s options", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be at least " + fe.Param()
	case "lte":
		return "Must be at most " + fe.Param()
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "timezone":
		return "Enter an IANA time zone such as Pacific/Auckland"
	case "datetime":
		return "Enter a date as YYYY-MM-DD"
	default:
		return "Invalid value"
	}
}
