// Package validation holds the ordered input checks that guard entry into the
// reservation workflow. Every rule is a pure function over a request payload.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Payload is the decoded "data" object of a request body.
type Payload map[string]any

// Has reports whether key is present with a truthy value: not null, not an
// empty string, not zero and not false.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	if !ok {
		return false
	}
	return truthy(v)
}

// Present reports whether key exists and is not null.
func (p Payload) Present(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value at key rendered as text; missing keys yield "".
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the value at key when it is an integral JSON number.
// Numeric strings are rejected.
func (p Payload) Int(key string) (int, bool) {
	return intValue(p[key])
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	}
	return true
}

func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case uint:
		return int(val), true
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(val), true
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n), true
		}
		f, err := val.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// Calendar supplies the clock and the restaurant's timezone. Reservation
// dates and times are always interpreted as restaurant-local wall time.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// DefaultCalendar uses the wall clock in the given location (time.Local when nil).
func DefaultCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Location: loc, Now: time.Now}
}

// FixedCalendar returns a calendar frozen at now, for deterministic checks.
func FixedCalendar(now time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: func() time.Time { return now }}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// CurrentTime returns the calendar's notion of now.
func (c Calendar) CurrentTime() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current restaurant-local date as YYYY-MM-DD.
func (c Calendar) Today() string {
	return c.CurrentTime().In(c.location()).Format(DateLayout)
}

// DigitsOnly strips everything but 0-9 from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
