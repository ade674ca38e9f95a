package dates

import (
	"testing"
	"time"
)

var ref = time.Date(2024, 5, 15, 12, 0, 0, 0, time.Local)

func TestResolveExplicitLayouts(t *testing.T) {
	cases := []struct {
		expr        string
		wantDay     string
		wantHasTime bool
	}{
		{"2024-06-01", "2024-06-01", false},
		{"2024-06-01T14:30", "2024-06-01", true},
		{"2024-06-01 14:30:00", "2024-06-01", true},
	}
	for _, c := range cases {
		dt, hasTime, err := Resolve(c.expr, ref)
		if err != nil {
			t.Fatalf("resolving %q: %v", c.expr, err)
		}
		if got := DayString(dt); got != c.wantDay {
			t.Fatalf("resolving %q: expected day %s, got %s", c.expr, c.wantDay, got)
		}
		if hasTime != c.wantHasTime {
			t.Fatalf("resolving %q: expected hasTime=%v, got %v", c.expr, c.wantHasTime, hasTime)
		}
	}
}

func TestResolveNaturalLanguageIsRelativeToRef(t *testing.T) {
	dt, hasTime, err := Resolve("tomorrow", ref)
	if err != nil {
		t.Fatalf("resolving tomorrow: %v", err)
	}
	if got := DayString(dt); got != "2024-05-16" {
		t.Fatalf("expected tomorrow relative to ref to be 2024-05-16, got %s", got)
	}
	if hasTime {
		t.Fatalf("expected no time-of-day hint for %q", "tomorrow")
	}
}

func TestResolveRejectsGarbage(t *testing.T) {
	if _, _, err := Resolve("", ref); err == nil {
		t.Fatalf("expected an error for the empty expression")
	}
}

func TestTimeOfDayHint(t *testing.T) {
	if !timeOfDayHint("tomorrow at 14:00") {
		t.Fatalf("expected a clock time to be detected")
	}
	if !timeOfDayHint("today 5pm") {
		t.Fatalf("expected pm marker to be detected")
	}
	if timeOfDayHint("next monday") {
		t.Fatalf("expected no time-of-day for a bare day")
	}
}

func TestDaySnapping(t *testing.T) {
	dt := time.Date(2024, 5, 15, 13, 45, 12, 0, time.Local)
	if got := StartOfDay(dt); got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("start of day not midnight: %v", got)
	}
	if got := EndOfDay(dt); got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Fatalf("end of day not 23:59:59: %v", got)
	}
}
