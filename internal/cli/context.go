package cli

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/amirbrooks/todoist-action-cli/internal/api"
	"github.com/amirbrooks/todoist-action-cli/internal/cache"
	"github.com/amirbrooks/todoist-action-cli/internal/config"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

// Context carries the run-wide collaborators and switches every action
// handler can reach. Actions thread the task collection separately; the
// context itself only accumulates side state (verbosity, the command queue).
type Context struct {
	Config  *config.Config
	Service api.Service
	Cache   *cache.Store
	Queue   *api.Queue

	Inject tasks.InjectOptions

	Verbose   int
	AssumeYes bool

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Now func() time.Time

	stdin *bufio.Reader
}

// stdinReader wraps Stdin in one shared buffered reader, so input buffered
// by an earlier prompt is still there for the next one.
func (ctx *Context) stdinReader() *bufio.Reader {
	if ctx.stdin == nil {
		ctx.stdin = bufio.NewReader(ctx.Stdin)
	}
	return ctx.stdin
}

func (ctx *Context) now() time.Time {
	if ctx.Now != nil {
		return ctx.Now()
	}
	return time.Now()
}

func (ctx *Context) verbosef(format string, args ...any) {
	if ctx.Verbose > 0 {
		fmt.Fprintf(ctx.Stderr, "todoist-action-cli: "+format+"\n", args...)
	}
}
