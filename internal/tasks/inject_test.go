package tasks

import (
	"testing"

	"github.com/amirbrooks/todoist-action-cli/internal/dates"
	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

func derived(t *testing.T, col Collection, taskID, key string) query.Value {
	t.Helper()
	d, ok := col.Derived[taskID]
	if !ok {
		t.Fatalf("no derived entry for task %s", taskID)
	}
	v, ok := d[key]
	if !ok {
		t.Fatalf("derived key %q absent for task %s", key, taskID)
	}
	return v
}

func TestInjectProjectName(t *testing.T) {
	col := fixture()
	if got := derived(t, col, "1", "project_name").Str; got != "Work" {
		t.Fatalf("expected project_name %q, got %q", "Work", got)
	}
	// Unknown project ids get the N/A placeholder, not a missing key.
	if got := derived(t, col, "5", "project_name").Str; got != "N/A" {
		t.Fatalf("expected project_name %q for orphan task, got %q", "N/A", got)
	}
}

func TestInjectDateFields(t *testing.T) {
	col := fixture()

	// All-day due date snaps to end of day.
	allday := derived(t, col, "1", "due_date_safe_dt").Time
	if allday.Hour() != 23 || allday.Minute() != 59 || allday.Second() != 59 {
		t.Fatalf("expected all-day due to snap to 23:59:59, got %v", allday)
	}
	if !derived(t, col, "1", "is_allday").Bool {
		t.Fatalf("expected is_allday=true for a date-only due")
	}

	// A due date with a clock time keeps it.
	timed := derived(t, col, "2", "due_date_safe_dt").Time
	if timed.Hour() != 10 || timed.Minute() != 0 {
		t.Fatalf("expected 10:00 to be preserved, got %v", timed)
	}
	if derived(t, col, "2", "is_allday").Bool {
		t.Fatalf("expected is_allday=false for a timed due")
	}

	// No due date: distant-future sentinel, null due_string_safe.
	sentinel := derived(t, col, "3", "due_date_safe_dt").Time
	if !sentinel.Equal(dates.NoDueDate) {
		t.Fatalf("expected the no-due-date sentinel, got %v", sentinel)
	}
	if !derived(t, col, "3", "due_string_safe").IsNull() {
		t.Fatalf("expected null due_string_safe for a task with no due date")
	}
}

func TestInjectLabelAndCheckedFields(t *testing.T) {
	col := fixture()
	names := derived(t, col, "5", "label_names")
	if len(names.List) != 2 || names.List[0].Str != "errand" || names.List[1].Str != "Urgent" {
		t.Fatalf("unexpected label_names: %v", names)
	}
	if got := derived(t, col, "5", "labels_str").Str; got != "@errand @Urgent" {
		t.Fatalf("expected labels_str %q, got %q", "@errand @Urgent", got)
	}
	if got := derived(t, col, "5", "checked_str").Str; got != "[x]" {
		t.Fatalf("expected checked_str %q, got %q", "[x]", got)
	}
	if got := derived(t, col, "1", "checked_str").Str; got != "[ ]" {
		t.Fatalf("expected checked_str %q, got %q", "[ ]", got)
	}
}

func TestInjectDisabledGroupLeavesKeysAbsent(t *testing.T) {
	col := fixture()
	opts := DefaultInjectOptions()
	opts.Labels = false
	Inject(&col, opts)
	if _, ok := col.Derived["5"]["label_names"]; ok {
		t.Fatalf("expected label_names to be absent when the labels group is off")
	}
	// Raw fields stay resolvable regardless of injection toggles.
	if _, err := ResolveKey(col, col.Tasks[4], "labels"); err != nil {
		t.Fatalf("raw labels key should resolve: %v", err)
	}
	// Resolving the absent derived key is a FilterError.
	if _, err := ResolveKey(col, col.Tasks[4], "label_names"); err == nil {
		t.Fatalf("expected a FilterError for the disabled derived key")
	}
}
