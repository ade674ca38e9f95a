package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirbrooks/todoist-action-cli/internal/dates"
	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

// InjectOptions toggles the derived-field groups individually. A disabled
// group leaves its keys entirely absent from the derived map, so later key
// resolution fails loudly instead of matching against a placeholder.
type InjectOptions struct {
	Projects bool // project_name
	Dates    bool // due_date_safe_dt, due_date_safe_iso, is_allday, due_string_safe
	Labels   bool // label_names, labels_str
	Checked  bool // checked_str
}

// DefaultInjectOptions enables every group.
func DefaultInjectOptions() InjectOptions {
	return InjectOptions{Projects: true, Dates: true, Labels: true, Checked: true}
}

const projectNameNA = "N/A"

var dueLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Inject rebuilds the collection's derived side map from the raw records.
// It runs once per sync or cache load, over the full collection, before any
// filtering. Raw task fields are read, never written.
func Inject(col *Collection, opts InjectOptions) {
	projects := col.ProjectsByID()
	labels := col.LabelsByID()
	derived := make(map[string]map[string]query.Value, len(col.Tasks))
	for _, t := range col.Tasks {
		d := make(map[string]query.Value, 8)
		if opts.Projects {
			name := projectNameNA
			if p, ok := projects[t.ProjectID]; ok {
				name = p.Name
			}
			d["project_name"] = query.String(name)
		}
		if opts.Dates {
			injectDateFields(t, d)
		}
		if opts.Labels {
			injectLabelFields(t, labels, d)
		}
		if opts.Checked {
			if t.Checked {
				d["checked_str"] = query.String("[x]")
			} else {
				d["checked_str"] = query.String("[ ]")
			}
		}
		derived[t.ID] = d
	}
	col.Derived = derived
}

// injectDateFields parses due.date into a timezone-naive local datetime.
// All-day due dates (no time-of-day component) snap to end of day, matching
// the service's own 23:59:59 convention; tasks without a due date get the
// end-of-century sentinel so comparisons and sorts never trip over nulls.
func injectDateFields(t Task, d map[string]query.Value) {
	if t.Due == nil || t.Due.Date == "" {
		d["is_allday"] = query.Boolean(true)
		d["due_string_safe"] = query.Null()
		d["due_date_safe_dt"] = query.TimeOf(dates.NoDueDate)
		d["due_date_safe_iso"] = query.String(dates.NoDueDate.Format("2006-01-02T15:04:05"))
		return
	}
	allday := len(t.Due.Date) <= len("2006-01-02")
	dt, ok := parseDueDate(t.Due.Date)
	if !ok {
		dt = dates.NoDueDate
	} else if allday {
		dt = dates.EndOfDay(dt)
	}
	d["is_allday"] = query.Boolean(allday)
	d["due_string_safe"] = query.String(t.Due.String)
	d["due_date_safe_dt"] = query.TimeOf(dt)
	d["due_date_safe_iso"] = query.String(dt.Format("2006-01-02T15:04:05"))
}

func parseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if dt, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			// Drop any zone offset: derived datetimes are naive local time.
			return time.Date(dt.Year(), dt.Month(), dt.Day(), dt.Hour(), dt.Minute(), dt.Second(), 0, time.Local), true
		}
	}
	return time.Time{}, false
}

func injectLabelFields(t Task, labels map[string]Label, d map[string]query.Value) {
	names := make([]string, 0, len(t.LabelIDs))
	for _, id := range t.LabelIDs {
		if l, ok := labels[id]; ok {
			names = append(names, l.Name)
		}
	}
	formatted := make([]string, len(names))
	for i, name := range names {
		formatted[i] = fmt.Sprintf("@%s", name)
	}
	d["label_names"] = query.StringList(names)
	d["labels_str"] = query.String(strings.Join(formatted, " "))
}
