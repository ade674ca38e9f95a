package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/api"
	"github.com/amirbrooks/todoist-action-cli/internal/cache"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

func collectionFrom(resp *api.SyncResponse) tasks.Collection {
	return tasks.Collection{
		Tasks:    resp.Tasks,
		Projects: resp.Projects,
		Labels:   resp.Labels,
	}
}

// saveSnapshot caches the freshly fetched state. A cache-write failure is
// reported but does not fail the action; the sync itself succeeded.
func saveSnapshot(ctx *Context, resp *api.SyncResponse) {
	snap := &cache.Snapshot{
		SyncToken: resp.SyncToken,
		Tasks:     resp.Tasks,
		Projects:  resp.Projects,
		Labels:    resp.Labels,
	}
	if err := ctx.Cache.Save(snap); err != nil {
		fmt.Fprintln(ctx.Stderr, "todoist-action-cli: warning: could not save cache:", err)
	}
}

// syncAction is the read-only refresh: replaces the collection with fresh
// state, re-runs injection, rewrites the cache. The command queue survives.
func syncAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	resp, err := ctx.Service.Sync(context.Background())
	if err != nil {
		return tasks.Collection{}, err
	}
	before := len(col.Tasks)
	col = collectionFrom(resp)
	tasks.Inject(&col, ctx.Inject)
	saveSnapshot(ctx, resp)
	ctx.verbosef("-sync: %d tasks fetched (%d selected before)", len(col.Tasks), before)
	return col, nil
}

// commitAction submits the queue as one batch. Success drains the queue and
// replaces local state with the response; any failure leaves the queue
// exactly as it was so the commit can be retried.
func commitAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	n := ctx.Queue.Len()
	if n == 0 {
		fmt.Fprintln(ctx.Stdout, "Nothing to commit.")
		return col, nil
	}
	if !ctx.AssumeYes {
		ok, err := confirm(ctx, fmt.Sprintf("About to commit %d command(s). Continue? [Y/n] ", n))
		if err != nil {
			return tasks.Collection{}, err
		}
		if !ok {
			return tasks.Collection{}, ErrConfirmationDeclined
		}
	}
	resp, err := ctx.Service.SyncWithCommands(context.Background(), ctx.Queue.Commands())
	if err != nil {
		return tasks.Collection{}, err
	}
	ctx.Queue.Clear()
	col = collectionFrom(resp)
	tasks.Inject(&col, ctx.Inject)
	saveSnapshot(ctx, resp)
	fmt.Fprintf(ctx.Stdout, "Committed %d command(s).\n", n)
	return col, nil
}

// confirm prompts on stdout and reads one line. Empty input means yes.
func confirm(ctx *Context, prompt string) (bool, error) {
	fmt.Fprint(ctx.Stdout, prompt)
	line, err := ctx.stdinReader().ReadString('\n')
	if err != nil && line == "" {
		// EOF with no input counts as a decline, not an internal error.
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	}
	return false, nil
}

func showQueueAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	cmds := ctx.Queue.Commands()
	if len(cmds) == 0 {
		fmt.Fprintln(ctx.Stdout, "Queue is empty.")
		return col, nil
	}
	b, err := json.MarshalIndent(cmds, "", "  ")
	if err != nil {
		return tasks.Collection{}, err
	}
	fmt.Fprintln(ctx.Stdout, string(b))
	return col, nil
}

func deleteCacheAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	if err := ctx.Cache.Delete(); err != nil {
		return tasks.Collection{}, err
	}
	ctx.verbosef("-delete-cache: cache removed")
	return col, nil
}
