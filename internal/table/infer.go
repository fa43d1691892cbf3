package table

// infer.go assigns column types the way data-frame readers do.
//
// CSV fields arrive as raw text, so a column is typed as a whole: it is
// integer only if every non-null field parses as an integer, float if every
// field parses as a number, boolean if every field is a boolean literal, and
// text otherwise. Text columns keep the raw strings untouched ("007" stays
// "007"). Spreadsheet cells arrive already typed and go through InferValues.

import (
	"regexp"
	"strconv"
	"strings"
)

// nullMarkers are the field spellings read as missing values.
var nullMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// integerRegex matches optionally signed decimal integers.
var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// floatRegex matches decimals and scientific notation, plus inf/infinity.
var floatRegex = regexp.MustCompile(`^[+-]?((\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?|(?i:inf|infinity))$`)

// IsNullMarker reports whether a raw field denotes a missing value.
func IsNullMarker(s string) bool {
	_, ok := nullMarkers[s]
	return ok
}

// ParseBoolLiteral recognises the boolean spellings True/TRUE/true and
// False/FALSE/false.
func ParseBoolLiteral(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

// InferStrings types one CSV column from its raw fields and returns the
// typed values.
func InferStrings(fields []string) (ColumnType, []Value) {
	values := make([]Value, len(fields))
	nonNull := 0
	for _, f := range fields {
		if !IsNullMarker(f) {
			nonNull++
		}
	}
	switch {
	case len(fields) == 0:
		return TypeText, values
	case nonNull == 0:
		return TypeFloat, values
	}
	hasNull := nonNull < len(fields)

	if ints, ok := parseAll(fields, parseInt); ok {
		if hasNull {
			for i, v := range ints {
				if f, ok := v.AsFloat(); ok {
					ints[i] = Float(f)
				}
			}
			return TypeFloat, ints
		}
		return TypeInt, ints
	}

	if floats, ok := parseAll(fields, parseFloat); ok {
		return TypeFloat, floats
	}

	if bools, ok := parseAll(fields, parseBool); ok {
		if hasNull {
			return TypeText, bools
		}
		return TypeBool, bools
	}

	for i, f := range fields {
		if IsNullMarker(f) {
			values[i] = Null()
		} else {
			values[i] = String(f)
		}
	}
	return TypeText, values
}

// InferValues types a column of already-typed cells and returns the values,
// coerced to the column type where needed.
func InferValues(cells []Value) (ColumnType, []Value) {
	out := append([]Value(nil), cells...)

	var nulls, ints, floats, bools, times, others int
	for _, v := range cells {
		switch v.Kind() {
		case KindNull:
			nulls++
		case KindInt:
			ints++
		case KindFloat:
			floats++
		case KindBool:
			bools++
		case KindTime:
			times++
		default:
			others++
		}
	}
	nonNull := len(cells) - nulls

	switch {
	case len(cells) == 0:
		return TypeText, out
	case nonNull == 0:
		return TypeFloat, out
	case others > 0:
		return TypeText, out
	case ints == nonNull && nulls == 0:
		return TypeInt, out
	case ints+floats == nonNull:
		for i, v := range out {
			if f, ok := v.AsFloat(); ok {
				out[i] = Float(f)
			}
		}
		return TypeFloat, out
	case bools == nonNull:
		if nulls > 0 {
			return TypeText, out
		}
		return TypeBool, out
	case times == nonNull:
		return TypeDateTime, out
	}
	return TypeText, out
}

// parseAll converts every non-null field with parse, failing as soon as one
// field does not convert.
func parseAll(fields []string, parse func(string) (Value, bool)) ([]Value, bool) {
	values := make([]Value, len(fields))
	for i, f := range fields {
		if IsNullMarker(f) {
			continue
		}
		v, ok := parse(f)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func parseInt(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if !integerRegex.MatchString(s) {
		return Value{}, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, false
	}
	return Int(i), true
}

func parseFloat(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if !floatRegex.MatchString(s) {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat reports out-of-range values as ±Inf with an error.
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return Value{}, false
		}
	}
	return Float(f), true
}

func parseBool(s string) (Value, bool) {
	b, ok := ParseBoolLiteral(s)
	if !ok {
		return Value{}, false
	}
	return Bool(b), true
}
