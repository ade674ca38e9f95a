package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var ErrUnknownOperator = errors.New("unknown operator")

// UnknownOperatorError reports an operator name that is not in the registry.
// It satisfies errors.Is(err, ErrUnknownOperator).
type UnknownOperatorError struct {
	Name string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q", e.Name)
}

func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator
}

// OperatorSpec describes one named binary predicate. Specs are registered
// once at init and never mutated; Resolve looks them up by exact name.
type OperatorSpec struct {
	Name        string
	Insensitive string // name of the case-insensitive sibling, if any
	FoldCase    bool   // fold both operands before comparing
	Fn          func(a, b Value) (bool, error)
}

var registry = buildRegistry()

func buildRegistry() map[string]OperatorSpec {
	base := []struct {
		name        string
		insensitive string
		fn          func(a, b Value) (bool, error)
	}{
		{"eq", "ieq", opEq},
		{"ne", "ine", opNe},
		{"contains", "icontains", opContains},
		{"in", "iin", opIn},
		{"startswith", "istartswith", opStartswith},
		{"endswith", "iendswith", opEndswith},
		{"glob", "iglob", opGlob},
		{"lt", "ilt", opLt},
		{"le", "ile", opLe},
		{"gt", "igt", opGt},
		{"ge", "ige", opGe},
	}
	reg := make(map[string]OperatorSpec, 2*len(base))
	for _, op := range base {
		reg[op.name] = OperatorSpec{Name: op.name, Insensitive: op.insensitive, Fn: op.fn}
		reg[op.insensitive] = OperatorSpec{Name: op.insensitive, FoldCase: true, Fn: op.fn}
	}
	return reg
}

// Resolve returns the spec registered under name.
func Resolve(name string) (OperatorSpec, error) {
	spec, ok := registry[name]
	if !ok {
		return OperatorSpec{}, &UnknownOperatorError{Name: name}
	}
	return spec, nil
}

// Apply evaluates spec against the actual (task-side) and expected
// (comparison) values, folding case first for insensitive operators.
func Apply(spec OperatorSpec, actual, expected Value) (bool, error) {
	if spec.FoldCase {
		actual, expected = Fold(actual), Fold(expected)
	}
	return spec.Fn(actual, expected)
}

// OperatorNames lists all registered operator names, sorted, for help output.
func OperatorNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return SortStrings(names)
}

func opEq(a, b Value) (bool, error) { return Equal(a, b), nil }

func opNe(a, b Value) (bool, error) { return !Equal(a, b), nil }

// opContains: substring for strings, element membership for lists.
func opContains(a, b Value) (bool, error) {
	switch a.Kind {
	case KindString:
		return strings.Contains(a.Str, b.Text()), nil
	case KindList:
		for _, e := range a.List {
			if Equal(e, b) || (e.Kind == KindString && e.Str == b.Text()) {
				return true, nil
			}
		}
		return false, nil
	case KindNull:
		return false, nil
	}
	return strings.Contains(a.Text(), b.Text()), nil
}

// opIn is contains with the operands reversed: true when b contains a.
func opIn(a, b Value) (bool, error) { return opContains(b, a) }

func opStartswith(a, b Value) (bool, error) {
	return strings.HasPrefix(a.Text(), b.Text()), nil
}

func opEndswith(a, b Value) (bool, error) {
	return strings.HasSuffix(a.Text(), b.Text()), nil
}

// opGlob: shell-style wildcard match of a against pattern b.
func opGlob(a, b Value) (bool, error) {
	g, err := glob.Compile(b.Text())
	if err != nil {
		return false, fmt.Errorf("bad glob pattern %q: %w", b.Text(), err)
	}
	return g.Match(a.Text()), nil
}

func opLt(a, b Value) (bool, error) { return ordered(a, b, func(c int) bool { return c < 0 }) }
func opLe(a, b Value) (bool, error) { return ordered(a, b, func(c int) bool { return c <= 0 }) }
func opGt(a, b Value) (bool, error) { return ordered(a, b, func(c int) bool { return c > 0 }) }
func opGe(a, b Value) (bool, error) { return ordered(a, b, func(c int) bool { return c >= 0 }) }

func ordered(a, b Value, pass func(int) bool) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return pass(c), nil
}
