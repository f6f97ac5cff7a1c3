package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindDate
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
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// DateLayout is the canonical text form of a date cell.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when a string has to be read as a date.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Value is a single typed cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// FromAny converts a value produced by a database/sql driver into a Value.
// Booleans are kept as their text form.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case bool:
		return String(strconv.FormatBool(t))
	case time.Time:
		return Date(t)
	default:
		return String(fmt.Sprint(t))
	}
}

// String returns the display form of the value. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format(DateLayout)
		}
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Float reports the numeric reading of v. Strings are parsed; dates and
// nulls are not numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Time reports the date reading of v. Strings are parsed with the known
// layouts.
func (v Value) Time() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		return v.t, true
	case KindString:
		return ParseDate(v.s)
	default:
		return time.Time{}, false
	}
}

// ParseDate parses s with the layouts accepted for date cells.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Interface returns the Go value behind v: nil, string, int64, float64 or
// time.Time.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindDate:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether two values are the same cell value. Null equals
// null, and ints compare numerically with floats.
func (v Value) Equal(o Value) bool {
	if v.isNumeric() && o.isNumeric() {
		if v.kind == KindInt && o.kind == KindInt {
			return v.i == o.i
		}
		a, _ := v.Float()
		b, _ := o.Float()
		return a == b
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindDate:
		return v.t.Equal(o.t)
	}
	return false
}

// Compare orders v against o: -1, 0 or +1. Values of different,
// non-numeric kinds order by kind.
func (v Value) Compare(o Value) int {
	if v.isNumeric() && o.isNumeric() {
		if v.kind == KindInt && o.kind == KindInt {
			return cmpOrdered(v.i, o.i)
		}
		a, _ := v.Float()
		b, _ := o.Float()
		return cmpOrdered(a, b)
	}
	if v.kind != o.kind {
		return cmpOrdered(v.kind, o.kind)
	}
	switch v.kind {
	case KindString:
		return strings.Compare(v.s, o.s)
	case KindDate:
		return v.t.Compare(o.t)
	}
	return 0
}

// Key is a string that is equal for two values exactly when Equal holds
// between values of the same column.
func (v Value) Key() string {
	switch v.kind {
	case KindNull:
		return "\x00"
	case KindDate:
		return "d" + v.t.UTC().Format(time.RFC3339Nano)
	case KindInt, KindFloat:
		f, _ := v.Float()
		if v.kind == KindInt {
			return "n" + strconv.FormatInt(v.i, 10)
		}
		if f == float64(int64(f)) {
			return "n" + strconv.FormatInt(int64(f), 10)
		}
		return "n" + strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return "s" + v.s
	}
}

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

func cmpOrdered[T int64 | float64 | Kind](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
