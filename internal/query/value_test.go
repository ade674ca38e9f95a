package query

import (
	"testing"
	"time"
)

func TestFoldLowercasesNestedContainers(t *testing.T) {
	v := MapOf(
		Entry{Key: String("KEY"), Val: ListOf(String("Alpha"), String("BETA"))},
		Entry{Key: String("Other"), Val: Number(3)},
	)
	folded := Fold(v)
	if got := folded.Map[0].Key.Str; got != "key" {
		t.Fatalf("expected folded map key %q, got %q", "key", got)
	}
	if got := folded.Map[0].Val.List[1].Str; got != "beta" {
		t.Fatalf("expected folded list element %q, got %q", "beta", got)
	}
	if got := folded.Map[1].Val.Num; got != 3 {
		t.Fatalf("expected numbers to pass through fold, got %v", got)
	}
	// Fold returns a copy; the original must be untouched.
	if got := v.Map[0].Val.List[0].Str; got != "Alpha" {
		t.Fatalf("fold mutated its input: %q", got)
	}
}

func TestCompareRejectsMismatchedKinds(t *testing.T) {
	if _, err := Compare(Number(1), String("1")); err == nil {
		t.Fatalf("expected an error ordering number against string")
	}
	if _, err := Compare(Boolean(true), Boolean(false)); err == nil {
		t.Fatalf("expected an error ordering bools")
	}
}

func TestSortCompareOrdersNullLowest(t *testing.T) {
	values := []Value{Boolean(false), Number(0), String(""), TimeOf(time.Now())}
	for _, v := range values {
		if c := SortCompare(Null(), v); c >= 0 {
			t.Fatalf("expected null to sort below %v, got %d", v, c)
		}
	}
	if c := SortCompare(Null(), Null()); c != 0 {
		t.Fatalf("expected null == null, got %d", c)
	}
}

func TestTextFormatsNumbersWithoutTrailingZeros(t *testing.T) {
	if got := Number(4).Text(); got != "4" {
		t.Fatalf("expected %q, got %q", "4", got)
	}
	if got := Number(1.5).Text(); got != "1.5" {
		t.Fatalf("expected %q, got %q", "1.5", got)
	}
}
