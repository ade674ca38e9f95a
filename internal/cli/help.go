package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

const helpHeader = `todoist-action-cli - manipulate your task list with a chain of actions.

Usage: todoist-action-cli [key=value ...] -action [args ...] -action [args ...]

Actions run strictly left to right over the task collection loaded from the
local cache. Start chains with -sync to fetch fresh state; finish mutating
chains with -commit to submit the queued changes.

Example:
  todoist-action-cli -sync -project "Work*" -due before tomorrow \
      -sort priority_str,due_date_safe_dt -print

Actions:`

func helpAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	if len(args) == 1 {
		name := strings.TrimLeft(args[0], "-")
		a, ok := actionTable[name]
		if !ok {
			return tasks.Collection{}, &UnknownActionError{Name: name}
		}
		printActionHelp(ctx.Stdout, a)
		return col, nil
	}
	printHelp(ctx.Stdout)
	return col, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, helpHeader)
	for _, a := range actionList {
		printActionHelp(w, a)
	}
}

func printActionHelp(w io.Writer, a *action) {
	head := "-" + a.name
	if a.usage != "" {
		head += " " + a.usage
	}
	fmt.Fprintf(w, "  %-44s %s\n", head, a.summary)
	if len(a.aliases) > 0 {
		fmt.Fprintf(w, "  %-44s (alias: -%s)\n", "", strings.Join(a.aliases, ", -"))
	}
}
