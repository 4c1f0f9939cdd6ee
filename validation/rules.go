package validation

import (
	"sort"
	"strings"

	"github.com/kendall-kelly/reservations-api/apperrors"
)

// Rule is one validation step. It returns nil on success or an invalid-input
// error describing the first problem found.
type Rule func(p Payload) error

// Run applies rules in order and stops at the first failure.
func Run(p Payload, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(p); err != nil {
			return err
		}
	}
	return nil
}

// OnlyFields rejects payloads carrying any field outside allowed, naming
// every offending field.
func OnlyFields(allowed ...string) Rule {
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}
	return func(p Payload) error {
		var invalid []string
		for field := range p {
			if _, ok := known[field]; !ok {
				invalid = append(invalid, field)
			}
		}
		if len(invalid) > 0 {
			sort.Strings(invalid)
			return apperrors.Invalid("Invalid field(s): %s", strings.Join(invalid, ","))
		}
		return nil
	}
}

// RequireFields rejects payloads missing any of fields, checked in order.
func RequireFields(fields ...string) Rule {
	return func(p Payload) error {
		for _, field := range fields {
			if !p.Has(field) {
				return apperrors.Invalid("A '%s' property is required.", field)
			}
		}
		return nil
	}
}

// StringFields rejects payloads where any of fields is present with a
// non-string JSON value.
func StringFields(fields ...string) Rule {
	return func(p Payload) error {
		for _, field := range fields {
			if !p.Present(field) {
				continue
			}
			if _, ok := p[field].(string); !ok {
				return apperrors.Invalid("The '%s' property must be a string.", field)
			}
		}
		return nil
	}
}
