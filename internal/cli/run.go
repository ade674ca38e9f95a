package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/api"
	"github.com/amirbrooks/todoist-action-cli/internal/cache"
	"github.com/amirbrooks/todoist-action-cli/internal/config"
	"github.com/amirbrooks/todoist-action-cli/internal/query"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2 // unknown action/operator/key, bad arguments
	ExitDeclined = 3 // commit confirmation declined
	ExitSync     = 4 // sync or commit failed remotely
	ExitInternal = 10
)

// Run parses argv and executes the action chain, returning the process exit
// code.
func Run(argv []string) int {
	return run(argv, &Context{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin})
}

// run is Run with the collaborators injectable: tests pre-fill Config,
// Service, Cache, the IO streams, and Now.
func run(argv []string, ctx *Context) int {
	if ctx.Queue == nil {
		ctx.Queue = &api.Queue{}
	}
	base, groups := parseArgv(argv)
	if len(groups) == 0 {
		printHelp(ctx.Stderr)
		return ExitUsage
	}
	// Validate the whole chain before running any of it: an unknown action
	// at the end must not let earlier mutators queue anything.
	for _, g := range groups {
		if _, ok := actionTable[g.Name]; !ok {
			fmt.Fprintln(ctx.Stderr, "todoist-action-cli:", &UnknownActionError{Name: g.Name})
			return ExitUsage
		}
	}

	if ctx.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(ctx.Stderr, "todoist-action-cli: loading config:", err)
			return ExitInternal
		}
		ctx.Config = cfg
	}
	if err := applyBaseKwargs(ctx, base.Kwargs); err != nil {
		fmt.Fprintln(ctx.Stderr, "todoist-action-cli:", err)
		return ExitUsage
	}
	if ctx.Cache == nil {
		ctx.Cache = cache.NewStore(ctx.Config.CacheDir)
	}
	if ctx.Service == nil {
		token := ctx.Config.ResolveToken()
		if token == "" && chainNeedsNetwork(groups) {
			fmt.Fprintln(ctx.Stderr, "todoist-action-cli: no API token configured (set `token` in the config file, ~/.todoist_token.txt, or TODOIST_API_TOKEN)")
			return ExitUsage
		}
		ctx.Service = api.NewClient(ctx.Config.APIURL, token)
	}

	col, err := loadStartState(ctx)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, "todoist-action-cli:", err)
		return ExitInternal
	}

	for _, g := range groups {
		a := actionTable[g.Name]
		err := checkArity(a, g)
		if err == nil {
			col, err = a.fn(ctx, col, g.Args, g.Kwargs)
		}
		if err != nil {
			fmt.Fprintln(ctx.Stderr, "todoist-action-cli:", err)
			return exitCode(err)
		}
	}
	return ExitOK
}

// loadStartState builds the chain's initial collection from the cache. No
// cache yet means an empty collection, not an error; -sync fills it.
func loadStartState(ctx *Context) (tasks.Collection, error) {
	snap, err := ctx.Cache.Load()
	if err != nil {
		return tasks.Collection{}, err
	}
	col := tasks.Collection{}
	if snap == nil {
		ctx.verbosef("no local cache yet, start your chain with -sync")
	} else {
		col = tasks.Collection{Tasks: snap.Tasks, Projects: snap.Projects, Labels: snap.Labels}
	}
	tasks.Inject(&col, ctx.Inject)
	return col, nil
}

func checkArity(a *action, g actionGroup) error {
	if len(g.Args) < a.minArgs {
		return argErrorf(a.name, a.usage, "missing argument(s)")
	}
	if a.maxArgs >= 0 && len(g.Args) > a.maxArgs {
		return argErrorf(a.name, a.usage, "unexpected argument %q", g.Args[a.maxArgs])
	}
	return nil
}

func chainNeedsNetwork(groups []actionGroup) bool {
	for _, g := range groups {
		if g.Name == "sync" || g.Name == "commit" {
			return true
		}
	}
	return false
}

// applyBaseKwargs handles the key=value tokens before the first action:
// per-run config overrides and the derived-field injection toggles.
func applyBaseKwargs(ctx *Context, kwargs map[string]string) error {
	ctx.Inject = tasks.DefaultInjectOptions()
	// The master toggle applies first so the per-group toggles can re-enable
	// single groups on top of it.
	if value, ok := kwargs["inject_derived_task_fields"]; ok {
		on, err := boolValue("inject_derived_task_fields", value)
		if err != nil {
			return err
		}
		if !on {
			ctx.Inject = tasks.InjectOptions{}
		}
	}
	for key, value := range kwargs {
		switch key {
		case "inject_derived_task_fields":
			// Handled above.
		case "inject_task_project_fields":
			on, err := boolValue(key, value)
			if err != nil {
				return err
			}
			ctx.Inject.Projects = on
		case "inject_task_date_fields":
			on, err := boolValue(key, value)
			if err != nil {
				return err
			}
			ctx.Inject.Dates = on
		case "inject_task_labels_fields":
			on, err := boolValue(key, value)
			if err != nil {
				return err
			}
			ctx.Inject.Labels = on
		case "inject_task_checked_fields":
			on, err := boolValue(key, value)
			if err != nil {
				return err
			}
			ctx.Inject.Checked = on
		case "default_task_print_fmt":
			ctx.Config.DefaultTaskPrintFmt = value
		case "default_task_sort_keys":
			ctx.Config.DefaultTaskSortKeys = value
		case "default_task_sort_order":
			ctx.Config.DefaultTaskSortOrder = value
		case "api_url":
			ctx.Config.APIURL = value
		case "cache_dir":
			ctx.Config.CacheDir = value
		default:
			return fmt.Errorf("base option %q not recognized", key)
		}
	}
	return nil
}

func boolValue(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("base option %s: %q is not a bool", key, value)
}

func exitCode(err error) int {
	var se *api.SyncError
	switch {
	case errors.Is(err, ErrConfirmationDeclined):
		return ExitDeclined
	case errors.As(err, &se):
		return ExitSync
	case errors.Is(err, ErrUnknownAction),
		errors.Is(err, ErrArgument),
		errors.Is(err, query.ErrUnknownOperator),
		errors.Is(err, tasks.ErrUnknownKey):
		return ExitUsage
	}
	return ExitInternal
}
