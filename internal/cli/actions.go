// Package cli is the action-chain interpreter: it tokenizes argv into
// action groups, validates them against the fixed action table, and runs
// each handler left-to-right over the task collection.
package cli

import (
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

// handlerFunc runs one action over the current collection and returns the
// collection the next action sees.
type handlerFunc func(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error)

type action struct {
	name    string
	aliases []string
	usage   string
	summary string
	minArgs int
	maxArgs int // -1 means unlimited
	fn      handlerFunc
}

// actionList is the full CLI surface in help order. actionTable indexes it
// by name and alias; both are fixed at init and never mutated.
var (
	actionList  []*action
	actionTable = map[string]*action{}
)

func register(a *action) {
	actionList = append(actionList, a)
	actionTable[a.name] = a
	for _, alias := range a.aliases {
		actionTable[alias] = a
	}
}

func init() {
	// Meta.
	register(&action{name: "help", aliases: []string{"h"}, usage: "[action]",
		summary: "print this overview, or one action's usage", minArgs: 0, maxArgs: 1, fn: helpAction})
	register(&action{name: "verbose", aliases: []string{"v"},
		summary: "increase verbosity for the rest of the chain", fn: verboseAction})
	register(&action{name: "yes", aliases: []string{"y"},
		summary: "answer yes to confirmation prompts for the rest of the chain", fn: yesAction})

	// Collaborators.
	register(&action{name: "sync",
		summary: "fetch fresh state from the service (read-only, keeps the queue)", fn: syncAction})
	register(&action{name: "commit",
		summary: "submit the pending command queue as one batch", fn: commitAction})
	register(&action{name: "show-queue", aliases: []string{"print-queue"},
		summary: "print the pending command queue without submitting it", fn: showQueueAction})
	register(&action{name: "delete-cache",
		summary: "delete the local state cache", fn: deleteCacheAction})

	// Rendering and ordering.
	register(&action{name: "print", usage: "[fmt] [header] [sep]",
		summary: "print the selected tasks", minArgs: 0, maxArgs: 3, fn: printAction})
	register(&action{name: "sort", usage: "[keys] [order]",
		summary: "stable multi-key sort, e.g. -sort project_name,priority_str ascending",
		minArgs: 0, maxArgs: 2, fn: sortAction})

	// Generic filtering.
	register(&action{name: "filter", aliases: []string{"has"},
		usage:   "<key> [not] <op> <value> [missing] [default]",
		summary: "keep tasks whose key-value compares true under the operator",
		minArgs: 3, maxArgs: 6, fn: filterAction})
	register(&action{name: "is", usage: "[not] <predicate> ...",
		summary: "predicate filter: checked, recurring, due [before|on|after] <when>, in <project>",
		minArgs: 1, maxArgs: -1, fn: isAction})
	register(&action{name: "not", usage: "<predicate> ...",
		summary: "shorthand for -is not", minArgs: 1, maxArgs: -1, fn: notAction})
	register(&action{name: "due", usage: "[before|on|after] [when]",
		summary: "shorthand for -is due", minArgs: 0, maxArgs: -1, fn: dueAction})

	// Content filters with a fixed operator.
	register(contentOpAction("contains", "keep tasks whose content contains the value"))
	register(contentOpAction("startswith", "keep tasks whose content starts with the value"))
	register(contentOpAction("endswith", "keep tasks whose content ends with the value"))
	register(contentOpAction("glob", "keep tasks whose content matches the glob pattern"))
	register(contentOpAction("iglob", "like -glob, case-insensitive"))
	register(contentOpAction("eq", "keep tasks whose content equals the value"))
	register(contentOpAction("ieq", "like -eq, case-insensitive"))

	// Key-bound convenience filters.
	register(&action{name: "content", aliases: []string{"name"},
		usage:   "[not] [op] <value>",
		summary: "filter on task content (default op iglob)",
		minArgs: 1, maxArgs: 5, fn: keyFilterAction("content", "iglob")})
	register(&action{name: "project", usage: "[not] [op] <name>",
		summary: "filter on project name (default op iglob)",
		minArgs: 1, maxArgs: 5, fn: keyFilterAction("project_name", "iglob")})
	register(&action{name: "label", usage: "<name> [missing] [default]",
		summary: "keep tasks carrying the label", minArgs: 1, maxArgs: 3, fn: labelAction})
	register(&action{name: "priority", usage: "[not] [op] <1..4>",
		summary: "filter on numeric priority, 4 is most urgent (default op eq)",
		minArgs: 1, maxArgs: 5, fn: keyFilterAction("priority", "eq")})
	register(&action{name: "priority-eq", usage: "<1..4>",
		summary: "keep tasks with exactly this numeric priority",
		minArgs: 1, maxArgs: 3, fn: fixedOpFilterAction("priority", "eq")})
	register(&action{name: "priority-ge", usage: "<1..4>",
		summary: "keep tasks at or above this numeric priority",
		minArgs: 1, maxArgs: 3, fn: fixedOpFilterAction("priority", "ge")})
	register(&action{name: "priority-str", usage: "[not] [op] <p1..p4>",
		summary: "filter on the p1..p4 string form, p1 is most urgent (default op eq)",
		minArgs: 1, maxArgs: 5, fn: keyFilterAction("priority_str", "eq")})
	register(priorityStrAction("p1"))
	register(priorityStrAction("p2"))
	register(priorityStrAction("p3"))
	register(priorityStrAction("p4"))

	// Mutators.
	register(&action{name: "reschedule", usage: "<when>",
		summary: "queue a due-date change for every selected task",
		minArgs: 1, maxArgs: -1, fn: rescheduleAction})
	register(&action{name: "rename", usage: "<content>",
		summary: "queue a content change for every selected task",
		minArgs: 1, maxArgs: -1, fn: renameAction})
	register(&action{name: "close", aliases: []string{"mark-completed", "mark-as-done"},
		summary: "queue completion of every selected task", fn: closeAction})
	register(&action{name: "reopen",
		summary: "queue un-completion of every selected task", fn: reopenAction})
	register(&action{name: "archive",
		summary: "queue archival of every selected task", fn: archiveAction})
	register(&action{name: "delete",
		summary: "queue deletion of every selected task", fn: deleteAction})
	register(&action{name: "add-task",
		usage:   "<content> [project=<name>] [due=<when>] [priority=<p>] [labels=<a,b>]",
		summary: "queue a new task", minArgs: 1, maxArgs: -1, fn: addTaskAction})
}

func contentOpAction(op, summary string) *action {
	return &action{
		name:    op,
		usage:   "<value> [missing] [default]",
		summary: summary,
		minArgs: 1, maxArgs: 3,
		fn: fixedOpFilterAction("content", op),
	}
}

func priorityStrAction(p string) *action {
	return &action{
		name:    p,
		summary: "keep only " + p + " tasks",
		minArgs: 0, maxArgs: 2,
		fn: func(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
			return applyFilterTail(p, "", col, "priority_str", "eq", p, args, tasks.FilterOptions{})
		},
	}
}
