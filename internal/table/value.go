// Package table holds the in-memory tabular model shared by the file loaders,
// the cleaning pipeline and the presentation layer.
//
// A Table is an ordered list of rows over a fixed, uniquely named set of
// columns. Cells are typed Values; each Column carries the type assigned when
// the data was loaded. Tables are immutable once built: Filter, Transform and
// Head always return new tables.
package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the dynamic type of a cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a single cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value. NaN is treated as missing.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindFloat, f: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time returns a datetime value. The zero time is treated as missing.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Null()
	}
	return Value{kind: KindTime, t: t}
}

// Kind returns the value's dynamic type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the payload of a string value and false for any other kind.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindString }

// AsInt returns the payload of an integer value.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the numeric payload of an int or float value.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// numeric returns the value as a number for equality checks. Booleans count
// as 1 and 0, so True and 1 are duplicates in a mixed column.
func (v Value) numeric() (float64, bool) {
	if v.kind == KindBool {
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return v.AsFloat()
}

// AsTime returns the payload of a datetime value.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }

// Str returns the value's string form as used by text normalization.
//
// The rendering follows data-frame conventions rather than Go's: missing
// values become "nan", integral floats keep a trailing ".0", booleans are
// "True"/"False" and datetimes use "2006-01-02 15:04:05".
func (v Value) Str() string {
	switch v.kind {
	case KindNull:
		return "nan"
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindTime:
		return formatTimestamp(v.t)
	}
	return ""
}

// Equal reports whether two values are identical for duplicate detection.
// Null equals null; integers, floats and booleans compare numerically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		a, aok := v.numeric()
		b, bok := o.numeric()
		return aok && bok && a == b
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}

// key returns a canonical encoding of the value; equal values share a key.
func (v Value) key() string {
	switch v.kind {
	case KindNull:
		return "0"
	case KindString:
		return "s" + strconv.Quote(v.s)
	case KindInt:
		return "n" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<53 {
			return "n" + strconv.FormatInt(int64(v.f), 10)
		}
		return "n" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "n1"
		}
		return "n0"
	case KindTime:
		return "t" + strconv.FormatInt(v.t.UnixNano(), 10)
	}
	return "?"
}

// RowKey encodes a whole row so that two rows share a key exactly when every
// cell is Equal.
func RowKey(row []Value) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(v.key())
	}
	return b.String()
}

// formatFloat mirrors the shortest round-trip repr used by data-frame tools:
// positional notation between 1e-4 and 1e16, exponent notation elsewhere,
// and always a decimal point for integral values.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func formatTimestamp(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02 15:04:05.000000")
}
