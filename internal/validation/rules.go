package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Trim strips leading and trailing whitespace.
func Trim() Rule {
	return func(value string) (string, error) {
		return strings.TrimSpace(value), nil
	}
}

// Required rejects empty values.
func Required(message string) Rule {
	return func(value string) (string, error) {
		if value == "" {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// Length bounds the value's length in characters. A max of 0 means no
// upper bound.
func Length(min, max int, message string) Rule {
	tag := fmt.Sprintf("min=%d", min)
	if max > 0 {
		tag += fmt.Sprintf(",max=%d", max)
	}
	return func(value string) (string, error) {
		if err := validate.Var(value, tag); err != nil {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// MaxLength rejects values longer than max characters. Empty values pass.
func MaxLength(max int, message string) Rule {
	tag := fmt.Sprintf("max=%d", max)
	return func(value string) (string, error) {
		if err := validate.Var(value, tag); err != nil {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// Escape replaces HTML-sensitive characters with entities.
func Escape() Rule {
	return func(value string) (string, error) {
		return htmlEscaper.Replace(value), nil
	}
}

// Optional ends the chain when the value is empty, substituting fallback.
func Optional(fallback string) Rule {
	return func(value string) (string, error) {
		if value == "" {
			return fallback, errSkip
		}
		return value, nil
	}
}

// OneOf rejects values outside allowed.
func OneOf(message string, allowed ...string) Rule {
	return func(value string) (string, error) {
		for _, a := range allowed {
			if value == a {
				return value, nil
			}
		}
		return value, errors.New(message)
	}
}

// ISODate parses the value as an ISO-8601 date and normalizes it to RFC 3339.
func ISODate(message string) Rule {
	return func(value string) (string, error) {
		t, err := parseISODate(value)
		if err != nil {
			return value, errors.New(message)
		}
		return t.Format(time.RFC3339), nil
	}
}

func parseISODate(value string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 date: %q", value)
}
