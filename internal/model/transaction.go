package model

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Transaction is a single record as returned by the transactions service.
// Records are passed through untouched; the accessors below exist for display only.
type Transaction map[string]any

// ID returns the record identifier, or "" when the server did not send one.
func (t Transaction) ID() string {
	v, ok := t["id"]
	if !ok || v == nil {
		return ""
	}
	// Numeric ids decode as float64; render them without a fraction.
	if f, isFloat := v.(float64); isFloat && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return cast.ToString(v)
}

// Description returns the first non-empty human label the record carries.
func (t Transaction) Description() string {
	for _, key := range []string{"title", "description", "name", "merchant"} {
		if s := cast.ToString(t[key]); s != "" {
			return s
		}
	}
	return ""
}

// Category returns the record's category label.
func (t Transaction) Category() string {
	return cast.ToString(t["category"])
}

// Amount returns the signed amount, or 0 when it is missing or not numeric.
func (t Transaction) Amount() float64 {
	f, _ := toNumber(t["amount"])
	return f
}

// Date returns the record's creation date. The zero time is returned when the
// record carries no parseable date.
func (t Transaction) Date() time.Time {
	for _, key := range []string{"created_at", "date"} {
		v, ok := t[key]
		if !ok || v == nil {
			continue
		}
		if d, err := cast.ToTimeE(v); err == nil {
			return d
		}
	}
	return time.Time{}
}
