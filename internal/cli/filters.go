package cli

import (
	"errors"

	"github.com/amirbrooks/todoist-action-cli/internal/query"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

func verboseAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	ctx.Verbose++
	return col, nil
}

func yesAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	ctx.AssumeYes = true
	return col, nil
}

// filterAction is the generic `-filter <key> [not] <op> <value>` form, with
// the optional missing-policy tail.
func filterAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	const usage = "<key> [not] <op> <value> [missing] [default]"
	key := args[0]
	args = args[1:]
	opts := tasks.FilterOptions{}
	if args[0] == "not" {
		opts.Negate = true
		args = args[1:]
	}
	if len(args) < 2 {
		return tasks.Collection{}, argErrorf("filter", usage, "need an operator and a value")
	}
	return applyFilterTail("filter", usage, col, key, args[0], args[1], args[2:], opts)
}

// keyFilterAction builds the `-content`/`-project`/`-priority` style
// adaptor: `[not] [op] <value>`, a single value meaning the default op.
func keyFilterAction(key, defaultOp string) handlerFunc {
	return func(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
		const usage = "[not] [op] <value>"
		name := key
		switch key {
		case "project_name":
			name = "project"
		case "priority_str":
			name = "priority-str"
		}
		opts := tasks.FilterOptions{}
		if args[0] == "not" {
			opts.Negate = true
			args = args[1:]
		}
		if len(args) == 0 {
			return tasks.Collection{}, argErrorf(name, usage, "missing comparison value")
		}
		op, value, rest := defaultOp, args[0], args[1:]
		if len(args) >= 2 {
			op, value, rest = args[0], args[1], args[2:]
		}
		return applyFilterTail(name, usage, col, key, op, value, rest, opts)
	}
}

// fixedOpFilterAction builds the `-contains`/`-priority-ge` style filters
// where key and operator are baked in and only the value (plus the optional
// missing-policy tail) comes from the user.
func fixedOpFilterAction(key, op string) handlerFunc {
	return func(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
		return applyFilterTail(op, "<value> [missing] [default]", col, key, op, args[0], args[1:], tasks.FilterOptions{})
	}
}

// labelAction keeps tasks carrying the named label: case-insensitive
// membership against the derived label_names list.
func labelAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	return applyFilterTail("label", "<name> [missing] [default]", col, "label_names", "icontains", args[0], args[1:], tasks.FilterOptions{})
}

func isAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	return applyPredicate("is", ctx, col, args)
}

func notAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	return applyPredicate("not", ctx, col, append([]string{"not"}, args...))
}

func dueAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	return applyPredicate("due", ctx, col, append([]string{"due"}, args...))
}

func applyPredicate(name string, ctx *Context, col tasks.Collection, args []string) (tasks.Collection, error) {
	out, err := tasks.IsPredicate(col, args, false, ctx.now())
	if err != nil {
		return tasks.Collection{}, filterErr(name, "[not] <predicate> ...", err)
	}
	ctx.verbosef("-%s: %d of %d tasks selected", name, len(out.Tasks), len(col.Tasks))
	return out, nil
}

func sortAction(ctx *Context, col tasks.Collection, args []string, kwargs map[string]string) (tasks.Collection, error) {
	keys := ctx.Config.DefaultTaskSortKeys
	order := ctx.Config.DefaultTaskSortOrder
	if len(args) > 0 {
		keys = args[0]
	}
	if len(args) > 1 {
		order = args[1]
	}
	out, err := tasks.Sort(col, keys, order)
	if err != nil {
		return tasks.Collection{}, filterErr("sort", "[keys] [order]", err)
	}
	return out, nil
}

// applyFilterTail consumes the optional trailing [missing [default]] args
// shared by every filter form, then runs the generic filter.
func applyFilterTail(name, usage string, col tasks.Collection, key, op, value string, rest []string, opts tasks.FilterOptions) (tasks.Collection, error) {
	if len(rest) > 0 {
		opts.Missing = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		opts.Default = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return tasks.Collection{}, argErrorf(name, usage, "unexpected argument %q", rest[0])
	}
	out, err := tasks.Filter(col, key, op, value, opts)
	if err != nil {
		return tasks.Collection{}, filterErr(name, usage, err)
	}
	return out, nil
}

// filterErr passes the registry's and resolver's typed errors through for
// the exit-code mapping and wraps anything else as an ArgumentError.
func filterErr(name, usage string, err error) error {
	if errors.Is(err, query.ErrUnknownOperator) || errors.Is(err, tasks.ErrUnknownKey) || errors.Is(err, ErrArgument) {
		return err
	}
	return argErrorf(name, usage, "%v", err)
}
