package cli

import (
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/api"
	"github.com/amirbrooks/todoist-action-cli/internal/dates"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

// Mutating actions never touch raw task fields or the network; they only
// append commands to the queue, one per selected task, for -commit to send.

func rescheduleAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	when := strings.Join(args, " ")
	// Validate the expression locally before queuing anything.
	if _, _, err := dates.Resolve(when, ctx.now()); err != nil {
		return tasks.Collection{}, argErrorf("reschedule", "<when>", "%v", err)
	}
	for _, t := range col.Tasks {
		ctx.Queue.Push(api.NewCommand(api.CommandUpdate, map[string]any{
			"id":  t.ID,
			"due": map[string]any{"string": when},
		}))
	}
	ctx.verbosef("-reschedule: queued %d update(s) to %q, remember to -commit", len(col.Tasks), when)
	return col, nil
}

func renameAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	content := strings.Join(args, " ")
	for _, t := range col.Tasks {
		ctx.Queue.Push(api.NewCommand(api.CommandUpdate, map[string]any{
			"id":      t.ID,
			"content": content,
		}))
	}
	ctx.verbosef("-rename: queued %d update(s), remember to -commit", len(col.Tasks))
	return col, nil
}

// queuePerTask covers the argument-less per-task mutators (close, reopen,
// archive, delete): one command per selected task, nothing else.
func queuePerTask(name string, kind api.CommandKind) handlerFunc {
	return func(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
		for _, t := range col.Tasks {
			ctx.Queue.Push(api.NewCommand(kind, map[string]any{"id": t.ID}))
		}
		ctx.verbosef("-%s: queued %d command(s), remember to -commit", name, len(col.Tasks))
		return col, nil
	}
}

var (
	closeAction   = queuePerTask("close", api.CommandClose)
	reopenAction  = queuePerTask("reopen", api.CommandUncomplete)
	archiveAction = queuePerTask("archive", api.CommandArchive)
	deleteAction  = queuePerTask("delete", api.CommandDelete)
)

func addTaskAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	const usage = "<content> [project=<name>] [due=<when>] [priority=<p>] [labels=<a,b>]"
	for key := range kwargs {
		switch key {
		case "project", "due", "priority", "labels":
		default:
			return tasks.Collection{}, argErrorf("add-task", usage, "option %q not recognized", key)
		}
	}
	content := strings.Join(args, " ")
	cmdArgs := map[string]any{"content": content}
	if name, ok := kwargs["project"]; ok {
		id, ok := col.ProjectIDByName(name)
		if !ok {
			return tasks.Collection{}, argErrorf("add-task", usage, "project %q not found", name)
		}
		cmdArgs["project_id"] = id
	}
	if when, ok := kwargs["due"]; ok {
		if _, _, err := dates.Resolve(when, ctx.now()); err != nil {
			return tasks.Collection{}, argErrorf("add-task", usage, "%v", err)
		}
		cmdArgs["due"] = map[string]any{"string": when}
	}
	if p, ok := kwargs["priority"]; ok {
		n, err := tasks.ParsePriority(p)
		if err != nil {
			return tasks.Collection{}, argErrorf("add-task", usage, "%v", err)
		}
		cmdArgs["priority"] = n
	}
	if list, ok := kwargs["labels"]; ok {
		ids := []string{}
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			id, ok := col.LabelIDByName(name)
			if !ok {
				return tasks.Collection{}, argErrorf("add-task", usage, "label %q not found", name)
			}
			ids = append(ids, id)
		}
		cmdArgs["labels"] = ids
	}
	cmd := api.NewAddCommand(cmdArgs)
	ctx.Queue.Push(cmd)
	ctx.verbosef("-add-task: queued %q (temp id %s), remember to -commit", content, cmd.TempID)
	return col, nil
}
