package bms

import (
	"net/url"
	"strconv"
	"strings"
)

// Field is one key/value pair of a vendor form body.
type Field struct {
	Key   string
	Value string
}

// Form is an ordered application/x-www-form-urlencoded body. The vendor
// handlers are sensitive to field presence, and keeping the order the
// dashboard used makes captured traffic comparable.
type Form []Field

// Add appends a field and returns the extended form.
func (f Form) Add(key, value string) Form {
	return append(f, Field{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (f Form) Get(key string) (string, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value, true
		}
	}
	return "", false
}

// Encode renders the form in insertion order.
func (f Form) Encode() string {
	var sb strings.Builder
	for i, fld := range f {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(fld.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(fld.Value))
	}
	return sb.String()
}

// formatNumber renders a float in its shortest form: 26.0 -> "26", 26.5 -> "26.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
