// Package tasks holds the task record model and the in-memory evaluators
// (filter, sort, derived-field injection) the action chain runs over.
package tasks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

// Due is the raw due-date descriptor as the service reports it. An empty
// Timezone means the time is "floating" (literal clock time in any zone).
type Due struct {
	Date        string `json:"date"`
	String      string `json:"string"`
	Timezone    string `json:"timezone,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
}

// Task is one raw synchronized record. Raw fields are never mutated after a
// fetch; computed attributes live in the collection's derived side map.
type Task struct {
	ID         string   `json:"id"`
	ProjectID  string   `json:"project_id"`
	Content    string   `json:"content"`
	Checked    bool     `json:"checked"`
	Priority   int      `json:"priority"` // 1..4, 4 is most urgent
	Due        *Due     `json:"due,omitempty"`
	LabelIDs   []string `json:"labels,omitempty"`
	ParentID   string   `json:"parent_id,omitempty"`
	ChildOrder int      `json:"child_order"`
}

// PriorityStr is the human string form: p1 is most urgent (numeric 4). The
// inversion mirrors the service's own clients and is relied on by sorting.
func (t Task) PriorityStr() string {
	p := t.Priority
	if p < 1 || p > 4 {
		p = 1
	}
	return fmt.Sprintf("p%d", 5-p)
}

// ParsePriority accepts both the numeric form ("1".."4", 4 most urgent) and
// the string form ("p1".."p4", p1 most urgent), returning the numeric value.
func ParsePriority(s string) (int, error) {
	raw := s
	inverted := false
	if strings.HasPrefix(s, "p") || strings.HasPrefix(s, "P") {
		inverted = true
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 4 {
		return 0, fmt.Errorf("priority %q not recognized (use 1..4 or p1..p4)", raw)
	}
	if inverted {
		n = 5 - n
	}
	return n, nil
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Collection is the task set one action chain threads through its actions,
// together with the sibling tables fetched in the same sync and the derived
// side map keyed by task id. Filters and sorts return new collections with
// a fresh task slice; the tables and derived map are shared, never mutated.
type Collection struct {
	Tasks    []Task
	Projects []Project
	Labels   []Label
	Derived  map[string]map[string]query.Value
}

// WithTasks returns a view of c holding ts instead of c.Tasks.
func (c Collection) WithTasks(ts []Task) Collection {
	c.Tasks = ts
	return c
}

// ProjectsByID builds the project-id-to-project table.
func (c Collection) ProjectsByID() map[string]Project {
	m := make(map[string]Project, len(c.Projects))
	for _, p := range c.Projects {
		m[p.ID] = p
	}
	return m
}

// LabelsByID builds the label-id-to-label table.
func (c Collection) LabelsByID() map[string]Label {
	m := make(map[string]Label, len(c.Labels))
	for _, l := range c.Labels {
		m[l.ID] = l
	}
	return m
}

// ProjectIDByName resolves a project name (exact, then case-insensitive
// via the folded form) to its id.
func (c Collection) ProjectIDByName(name string) (string, bool) {
	for _, p := range c.Projects {
		if p.Name == name {
			return p.ID, true
		}
	}
	folded := query.Fold(query.String(name))
	for _, p := range c.Projects {
		if query.Equal(query.Fold(query.String(p.Name)), folded) {
			return p.ID, true
		}
	}
	return "", false
}

// LabelIDByName resolves a label name to its id, case-insensitively.
func (c Collection) LabelIDByName(name string) (string, bool) {
	folded := query.Fold(query.String(name))
	for _, l := range c.Labels {
		if l.Name == name || query.Equal(query.Fold(query.String(l.Name)), folded) {
			return l.ID, true
		}
	}
	return "", false
}
