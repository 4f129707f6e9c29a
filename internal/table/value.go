package table

import (
	"strconv"
	"strings"
)

// Value is a single cell: a scalar held in its string form, or missing.
// The zero Value is missing.
type Value struct {
	s     string
	valid bool
}

// String returns a present Value holding s.
func String(s string) Value { return Value{s: s, valid: true} }

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Strings converts a slice of literals into present Values.
func Strings(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// Parse turns raw text into a Value, treating blank text as missing.
func Parse(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Missing()
	}
	return String(s)
}

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return !v.valid }

// String returns the scalar text, or "" when missing.
func (v Value) String() string { return v.s }

// Float parses the scalar as a float.
func (v Value) Float() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Equal compares two Values. Missing equals missing.
func (v Value) Equal(o Value) bool {
	return v.valid == o.valid && v.s == o.s
}

// Or returns v, or fallback when v is missing.
func (v Value) Or(fallback Value) Value {
	if v.valid {
		return v
	}
	return fallback
}

// Label is a hierarchical position label, outer level first.
type Label []Value

// Scalar builds a one-level Label.
func Scalar(s string) Label { return Label{String(s)} }

// Key returns a comparable form of l suitable for map keys.
func (l Label) Key() string {
	var b strings.Builder
	for i, v := range l {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v.IsMissing() {
			b.WriteByte(0x00)
			continue
		}
		b.WriteByte(0x01)
		b.WriteString(v.s)
	}
	return b.String()
}

// Equal compares labels level by level.
func (l Label) Equal(o Label) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// String renders scalars bare and composite labels as a tuple.
func (l Label) String() string {
	if len(l) == 1 {
		return l[0].s
	}
	parts := make([]string, len(l))
	for i, v := range l {
		if v.IsMissing() {
			parts[i] = "NA"
			continue
		}
		parts[i] = v.s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Clone copies l.
func (l Label) Clone() Label {
	if l == nil {
		return nil
	}
	out := make(Label, len(l))
	copy(out, l)
	return out
}

// Inner returns the innermost level value.
func (l Label) Inner() Value {
	if len(l) == 0 {
		return Missing()
	}
	return l[len(l)-1]
}
