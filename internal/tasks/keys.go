package tasks

import (
	"errors"
	"fmt"

	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

var ErrUnknownKey = errors.New("unknown task key")

// FilterError reports a key that resolves against neither a raw task field
// nor a derived-field entry. It satisfies errors.Is(err, ErrUnknownKey).
type FilterError struct {
	Key string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("cannot resolve task key %q", e.Key)
}

func (e *FilterError) Is(target error) bool {
	return target == ErrUnknownKey
}

// rawAccessors maps key names to raw-field accessors. These keys are always
// resolvable, independent of which derived groups were injected.
var rawAccessors = map[string]func(t Task) query.Value{
	"id":         func(t Task) query.Value { return query.String(t.ID) },
	"project_id": func(t Task) query.Value { return query.String(t.ProjectID) },
	"content":    func(t Task) query.Value { return query.String(t.Content) },
	"checked":    func(t Task) query.Value { return query.Boolean(t.Checked) },
	"priority":   func(t Task) query.Value { return query.Number(float64(t.Priority)) },
	"priority_str": func(t Task) query.Value {
		return query.String(t.PriorityStr())
	},
	"due_string": func(t Task) query.Value {
		if t.Due == nil || t.Due.String == "" {
			return query.Null()
		}
		return query.String(t.Due.String)
	},
	// v7 legacy alias for due_string, kept because saved format strings and
	// muscle memory still use it.
	"date_string": func(t Task) query.Value {
		if t.Due == nil || t.Due.String == "" {
			return query.Null()
		}
		return query.String(t.Due.String)
	},
	"due_date": func(t Task) query.Value {
		if t.Due == nil || t.Due.Date == "" {
			return query.Null()
		}
		return query.String(t.Due.Date)
	},
	"is_recurring": func(t Task) query.Value {
		return query.Boolean(t.Due != nil && t.Due.IsRecurring)
	},
	"parent_id": func(t Task) query.Value {
		if t.ParentID == "" {
			return query.Null()
		}
		return query.String(t.ParentID)
	},
	"child_order": func(t Task) query.Value { return query.Number(float64(t.ChildOrder)) },
	"item_order":  func(t Task) query.Value { return query.Number(float64(t.ChildOrder)) },
	"labels":      func(t Task) query.Value { return query.StringList(t.LabelIDs) },
}

// ResolveKey resolves key for one task: raw fields first, then the task's
// derived-field map. Unresolvable keys return a *FilterError; a known key
// whose value is absent for this task returns null, which the filter
// missing-policy handles.
func ResolveKey(col Collection, t Task, key string) (query.Value, error) {
	if accessor, ok := rawAccessors[key]; ok {
		return accessor(t), nil
	}
	if d, ok := col.Derived[t.ID]; ok {
		if v, ok := d[key]; ok {
			return v, nil
		}
	}
	return query.Value{}, &FilterError{Key: key}
}

// resolveSortKey is ResolveKey with unresolvable keys mapped to the null
// sentinel: sorting orders missing keys lowest rather than raising.
func resolveSortKey(col Collection, t Task, key string) query.Value {
	v, err := ResolveKey(col, t, key)
	if err != nil {
		return query.Null()
	}
	return v
}
