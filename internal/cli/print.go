package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/format"
	"github.com/amirbrooks/todoist-action-cli/internal/query"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

// printAction renders the selected tasks: `-print [fmt] [header] [sep]`.
// The special formats "repr" and "pprint" dump the raw records as JSON.
func printAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	fmtStr := ctx.Config.DefaultTaskPrintFmt
	header, sep := "", "\n"
	if len(args) > 0 {
		fmtStr = args[0]
	}
	if len(args) > 1 {
		header = args[1]
	}
	if len(args) > 2 {
		sep = args[2]
	}

	if fmtStr == "repr" || fmtStr == "pprint" {
		b, err := json.MarshalIndent(col.Tasks, "", "  ")
		if err != nil {
			return tasks.Collection{}, err
		}
		fmt.Fprintln(ctx.Stdout, string(b))
		return col, nil
	}

	lines := make([]string, 0, len(col.Tasks)+1)
	if header != "" {
		lines = append(lines, header)
	}
	for _, t := range col.Tasks {
		lines = append(lines, format.Render(fmtStr, func(key string) (query.Value, bool) {
			v, err := tasks.ResolveKey(col, t, key)
			if err != nil {
				return query.Value{}, false
			}
			return v, true
		}))
	}
	if len(lines) > 0 {
		fmt.Fprintln(ctx.Stdout, strings.Join(lines, sep))
	}
	return col, nil
}
