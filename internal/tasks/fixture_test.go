package tasks

import "time"

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.Local)

// fixture is a small synced state with the corners the evaluators care
// about: an overdue task with a clock time, an all-day task due today, a
// task with no due date, a recurring task, a completed task, and a task
// whose project id resolves to nothing.
func fixture() Collection {
	col := Collection{
		Tasks: []Task{
			{ID: "1", ProjectID: "p-work", Content: "Buy milk", Priority: 1,
				Due: &Due{Date: "2024-05-15", String: "May 15"}, LabelIDs: []string{"l1"}},
			{ID: "2", ProjectID: "p-work", Content: "Fix login bug", Priority: 4,
				Due: &Due{Date: "2024-05-14T10:00:00", String: "May 14 10am"}},
			{ID: "3", ProjectID: "p-home", Content: "Clean garage", Priority: 2},
			{ID: "4", ProjectID: "p-work", Content: "Weekly report", Priority: 3,
				Due: &Due{Date: "2024-05-20", String: "every monday", IsRecurring: true}},
			{ID: "5", ProjectID: "p-gone", Content: "Mystery errand", Priority: 1, Checked: true,
				Due: &Due{Date: "2024-05-10", String: "May 10"}, LabelIDs: []string{"l1", "l2"}},
		},
		Projects: []Project{
			{ID: "p-work", Name: "Work"},
			{ID: "p-home", Name: "Home"},
		},
		Labels: []Label{
			{ID: "l1", Name: "errand"},
			{ID: "l2", Name: "Urgent"},
		},
	}
	Inject(&col, DefaultInjectOptions())
	return col
}

func ids(col Collection) []string {
	out := make([]string, len(col.Tasks))
	for i, t := range col.Tasks {
		out[i] = t.ID
	}
	return out
}

func sameIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
