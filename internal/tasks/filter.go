package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirbrooks/todoist-action-cli/internal/dates"
	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

// Missing-value policies: what to do when a task's value for the filter key
// is absent (null).
const (
	MissingExclude = "exclude" // task fails the filter (default)
	MissingInclude = "include" // task passes the filter
	MissingRaise   = "raise"   // abort the chain
	MissingDefault = "default" // substitute a default value
)

// FilterOptions tunes one generic filter evaluation.
type FilterOptions struct {
	Negate  bool
	Missing string // one of the Missing* constants, MissingExclude if empty
	Default string // substituted value when Missing == MissingDefault
}

var timeNow = time.Now

// Filter is the generic evaluator: keep the tasks whose key-value compares
// true against the raw comparison string under the named operator. The
// result is a stable partition of the input, never a re-sort. A leading '!'
// on the comparison value inverts the result, equivalent to the `not`
// keyword form.
func Filter(col Collection, key, opName, raw string, opts FilterOptions) (Collection, error) {
	if strings.HasPrefix(raw, "!") {
		opts.Negate = !opts.Negate
		raw = raw[1:]
	}
	spec, err := query.Resolve(opName)
	if err != nil {
		return Collection{}, err
	}
	return filterWith(col, key, spec, opts, func(actual query.Value) (query.Value, error) {
		return coerce(raw, actual.Kind)
	})
}

// FilterValue is Filter for an already-typed comparison value, used by the
// due-date filters which resolve their date expression up front.
func FilterValue(col Collection, key, opName string, expected query.Value, opts FilterOptions) (Collection, error) {
	spec, err := query.Resolve(opName)
	if err != nil {
		return Collection{}, err
	}
	return filterWith(col, key, spec, opts, func(query.Value) (query.Value, error) {
		return expected, nil
	})
}

func filterWith(col Collection, key string, spec query.OperatorSpec, opts FilterOptions, expectedFor func(actual query.Value) (query.Value, error)) (Collection, error) {
	missing := opts.Missing
	if missing == "" {
		missing = MissingExclude
	}
	switch missing {
	case MissingExclude, MissingInclude, MissingRaise, MissingDefault:
	default:
		return Collection{}, fmt.Errorf("missing policy %q not recognized", missing)
	}
	kept := make([]Task, 0, len(col.Tasks))
	for _, t := range col.Tasks {
		actual, err := ResolveKey(col, t, key)
		if err != nil {
			return Collection{}, err
		}
		if actual.IsNull() {
			// Negate applies to the operator result, not to tasks
			// included/excluded by the missing policy.
			switch missing {
			case MissingInclude:
				kept = append(kept, t)
				continue
			case MissingExclude:
				continue
			case MissingRaise:
				return Collection{}, fmt.Errorf("key %q not present in task %s: %s", key, t.ID, t.Content)
			case MissingDefault:
				actual = query.String(opts.Default)
			}
		}
		expected, err := expectedFor(actual)
		if err != nil {
			return Collection{}, err
		}
		match, err := query.Apply(spec, actual, expected)
		if err != nil {
			return Collection{}, fmt.Errorf("%s %s: %w", key, spec.Name, err)
		}
		if match != opts.Negate {
			kept = append(kept, t)
		}
	}
	return col.WithTasks(kept), nil
}

// coerce converts the CLI comparison string to the kind of the resolved
// task value, so "2" compares numerically against a numeric priority and
// "tomorrow" resolves to a datetime against a datetime key.
func coerce(raw string, kind query.Kind) (query.Value, error) {
	switch kind {
	case query.KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query.Value{}, fmt.Errorf("value %q is not a number", raw)
		}
		return query.Number(f), nil
	case query.KindBool:
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "y", "on":
			return query.Boolean(true), nil
		case "0", "false", "no", "n", "off":
			return query.Boolean(false), nil
		}
		return query.Value{}, fmt.Errorf("value %q is not a bool", raw)
	case query.KindTime:
		t, _, err := dates.Resolve(raw, timeNow())
		if err != nil {
			return query.Value{}, err
		}
		return query.TimeOf(t), nil
	default:
		return query.String(raw), nil
	}
}

// IsPredicate applies one `-is [not] <predicate>` filter. The predicate set
// is closed: checked (and its aliases), recurring, due [before|on|after]
// <expr>, and `in <project>`.
func IsPredicate(col Collection, args []string, negate bool, now time.Time) (Collection, error) {
	if len(args) > 0 && args[0] == "not" {
		negate = !negate
		args = args[1:]
	}
	if len(args) == 0 {
		return Collection{}, fmt.Errorf("missing predicate")
	}
	switch args[0] {
	case "checked", "complete", "completed", "done":
		return FilterValue(col, "checked", "eq", query.Boolean(true), FilterOptions{Negate: negate})
	case "unchecked", "incomplete":
		return FilterValue(col, "checked", "eq", query.Boolean(false), FilterOptions{Negate: negate})
	case "recurring":
		return FilterValue(col, "is_recurring", "eq", query.Boolean(true), FilterOptions{Negate: negate})
	case "in":
		if len(args) != 2 {
			return Collection{}, fmt.Errorf("`is in` takes exactly one project name")
		}
		return Filter(col, "project_name", "eq", args[1], FilterOptions{Negate: negate})
	case "due", "overdue":
		return dueFilter(col, args, negate, now)
	}
	return Collection{}, fmt.Errorf("predicate %q not recognized", args[0])
}

// dueFilter implements `-is [not] due [before|on|after] <expr>` and the
// `overdue` shorthand. Completed tasks are removed first (tasks without the
// checked flag pass through), then due dates compare against the resolved
// expression: before = strictly before start of that day, after = strictly
// after its end, on = same calendar day, bare `due` = due today or earlier.
func dueFilter(col Collection, args []string, negate bool, now time.Time) (Collection, error) {
	// "due or overdue" collapses to "due before tomorrow".
	if len(args) >= 3 && ((args[0] == "due" && args[1] == "or" && args[2] == "overdue") ||
		(args[0] == "overdue" && args[1] == "or" && args[2] == "due")) {
		args = append([]string{"due", "before", "tomorrow"}, args[3:]...)
	}

	opName := "le"
	when := "today"
	mode := "" // "", "before", "on", "after", "overdue"
	switch {
	case args[0] == "overdue":
		mode, opName = "overdue", "lt"
	case len(args) >= 3 && (args[1] == "before" || args[1] == "on" || args[1] == "after"):
		mode = args[1]
		when = strings.Join(args[2:], " ")
		switch mode {
		case "before":
			opName = "lt"
		case "after":
			opName = "gt"
		}
	case len(args) >= 2:
		mode = "on"
		when = strings.Join(args[1:], " ")
	}

	dt, hasTime, err := dates.Resolve(when, now)
	if err != nil {
		return Collection{}, err
	}

	col, err = FilterValue(col, "checked", "eq", query.Boolean(false), FilterOptions{Missing: MissingInclude})
	if err != nil {
		return Collection{}, err
	}

	if mode == "on" {
		// Same calendar day: prefix-match the derived ISO string.
		return Filter(col, "due_date_safe_iso", "startswith", dates.DayString(dt), FilterOptions{Negate: negate})
	}
	if !hasTime {
		switch mode {
		case "before", "overdue":
			dt = dates.StartOfDay(dt)
		default: // "after" and bare "due"
			dt = dates.EndOfDay(dt)
		}
	}
	return FilterValue(col, "due_date_safe_dt", opName, query.TimeOf(dt), FilterOptions{Negate: negate})
}
