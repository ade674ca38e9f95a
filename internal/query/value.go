package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the value variants a task attribute (or comparison value)
// can take. Keeping this a closed set lets operators and the case-folding
// visitor handle heterogeneous data without reflection.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTime
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Value is a tagged variant. Exactly the field selected by Kind is
// meaningful; the zero Value is null.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	Time time.Time
	List []Value
	Map  []Entry
}

// Entry is one key/value pair of a map value. Ordered slice rather than a Go
// map so folding and comparison stay deterministic.
type Entry struct {
	Key Value
	Val Value
}

func Null() Value              { return Value{} }
func Boolean(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Number(f float64) Value   { return Value{Kind: KindNumber, Num: f} }
func String(s string) Value    { return Value{Kind: KindString, Str: s} }
func TimeOf(t time.Time) Value { return Value{Kind: KindTime, Time: t} }
func ListOf(vs ...Value) Value { return Value{Kind: KindList, List: vs} }
func MapOf(es ...Entry) Value  { return Value{Kind: KindMap, Map: es} }
func StringList(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{Kind: KindList, List: vs}
}

// IsNull reports whether v carries no value. Missing task attributes resolve
// to null, which filter missing-policies treat the same as an absent key.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Text renders v as a plain string for display and string-operator
// comparisons against non-string operands.
func (v Value) Text() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindTime:
		return v.Time.Format("2006-01-02T15:04:05")
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.Text()
		}
		return strings.Join(parts, " ")
	case KindMap:
		parts := make([]string, len(v.Map))
		for i, e := range v.Map {
			parts[i] = fmt.Sprintf("%s:%s", e.Key.Text(), e.Val.Text())
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// Fold returns a copy of v with every string lower-cased, recursively: list
// elements, and both keys and values of maps, so nested containers are fully
// normalized before a case-insensitive comparison.
func Fold(v Value) Value {
	switch v.Kind {
	case KindString:
		return String(strings.ToLower(v.Str))
	case KindList:
		out := make([]Value, len(v.List))
		for i, e := range v.List {
			out[i] = Fold(e)
		}
		return Value{Kind: KindList, List: out}
	case KindMap:
		out := make([]Entry, len(v.Map))
		for i, e := range v.Map {
			out[i] = Entry{Key: Fold(e.Key), Val: Fold(e.Val)}
		}
		return Value{Kind: KindMap, Map: out}
	default:
		return v
	}
}

// Equal is deep equality across all kinds. Values of different kinds are
// never equal.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindTime:
		return a.Time.Equal(b.Time)
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for i := range a.Map {
			if !Equal(a.Map[i].Key, b.Map[i].Key) || !Equal(a.Map[i].Val, b.Map[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two values of the same orderable kind (number, time, or
// string). It returns an error for unorderable or mismatched kinds; callers
// coerce the comparison value before getting here.
func Compare(a, b Value) (int, error) {
	if a.Kind != b.Kind {
		return 0, fmt.Errorf("cannot order %s against %s", a.Kind, b.Kind)
	}
	switch a.Kind {
	case KindNumber:
		switch {
		case a.Num < b.Num:
			return -1, nil
		case a.Num > b.Num:
			return 1, nil
		}
		return 0, nil
	case KindTime:
		switch {
		case a.Time.Before(b.Time):
			return -1, nil
		case a.Time.After(b.Time):
			return 1, nil
		}
		return 0, nil
	case KindString:
		return strings.Compare(a.Str, b.Str), nil
	}
	return 0, fmt.Errorf("kind %s is not orderable", a.Kind)
}

// SortCompare is a total order over all values, used by the multi-key sort.
// Null sorts lowest so tasks missing a sort key land first in ascending
// order; otherwise kinds order Null < Bool < Number < String < Time < List
// < Map, and values of one kind order naturally.
func SortCompare(a, b Value) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case KindNull:
		return 0
	case KindBool:
		switch {
		case !a.Bool && b.Bool:
			return -1
		case a.Bool && !b.Bool:
			return 1
		}
		return 0
	case KindNumber, KindTime, KindString:
		c, _ := Compare(a, b)
		return c
	case KindList:
		for i := 0; i < len(a.List) && i < len(b.List); i++ {
			if c := SortCompare(a.List[i], b.List[i]); c != 0 {
				return c
			}
		}
		return len(a.List) - len(b.List)
	case KindMap:
		return strings.Compare(a.Text(), b.Text())
	}
	return 0
}

// SortStrings returns a sorted copy, convenience for deterministic rendering.
func SortStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
