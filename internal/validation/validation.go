// Package validation runs submitted form data through ordered, per-field
// rule chains before any domain logic sees it.
//
// A Rule is a pure function that may rewrite the value (sanitizers such as
// Trim or Escape) or reject it (checks such as Required or ISODate). Each
// field runs its own chain; a failing field never stops the others, and the
// sanitized values are always returned so a form can be re-rendered with
// the user's input.
package validation

import (
	"errors"
	"net/url"
	"time"
)

// FieldError is one failed check on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Rule transforms or checks a single raw value.
type Rule func(value string) (string, error)

// errSkip stops the remaining rules of a chain without reporting an error.
var errSkip = errors.New("skip remaining rules")

// Field declares the rule chain for one form field.
type Field struct {
	Name     string
	Multiple bool
	Rules    []Rule
}

// NewField declares a single-valued field.
func NewField(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// Each declares a multi-valued field (checkbox groups, multi-selects);
// the chain runs once per submitted value.
func Each(name string, rules ...Rule) Field {
	return Field{Name: name, Multiple: true, Rules: rules}
}

// Schema is the ordered set of fields validated for one form.
type Schema []Field

// Result is the outcome of running a Schema over a form.
type Result struct {
	Values url.Values
	Errors []FieldError
}

// Valid reports whether no field produced an error.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Get returns the sanitized value of a single-valued field.
func (r Result) Get(name string) string {
	return r.Values.Get(name)
}

// All returns every sanitized value of a multi-valued field.
func (r Result) All(name string) []string {
	return r.Values[name]
}

// Date returns the parsed date of a field validated with ISODate,
// or nil when the field was empty or invalid.
func (r Result) Date(name string) *time.Time {
	v := r.Get(name)
	if v == "" {
		return nil
	}
	t, err := parseISODate(v)
	if err != nil {
		return nil
	}
	return &t
}

// DateInput returns a date field as a form input value: yyyy-mm-dd when
// it parsed, the submitted text when it did not.
func (r Result) DateInput(name string) string {
	v := r.Get(name)
	if t, err := parseISODate(v); err == nil {
		return t.Format("2006-01-02")
	}
	return v
}

// HasError reports whether field failed at least one check.
func (r Result) HasError(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// AddError appends an error found outside the rule chains, such as a
// reference to a record that does not exist.
func (r *Result) AddError(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message, Value: r.Get(field)})
}

// Validate runs every field's chain over form.
func (s Schema) Validate(form url.Values) Result {
	result := Result{Values: url.Values{}}

	for _, field := range s {
		if field.Multiple {
			values := form[field.Name]
			sanitized := make([]string, 0, len(values))
			for _, raw := range values {
				v, errs := runChain(field, raw)
				sanitized = append(sanitized, v)
				result.Errors = append(result.Errors, errs...)
			}
			result.Values[field.Name] = sanitized
			continue
		}

		v, errs := runChain(field, form.Get(field.Name))
		result.Values.Set(field.Name, v)
		result.Errors = append(result.Errors, errs...)
	}

	return result
}

func runChain(field Field, value string) (string, []FieldError) {
	var errs []FieldError
	for _, rule := range field.Rules {
		next, err := rule(value)
		if errors.Is(err, errSkip) {
			return next, errs
		}
		if err != nil {
			errs = append(errs, FieldError{Field: field.Name, Message: err.Error(), Value: value})
			continue
		}
		value = next
	}
	return value, errs
}
