// Package api talks to the remote task service: the read-only sync, the
// sync-with-commands commit, and the queue of pending write commands built
// up by mutating actions.
package api

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// CommandKind names the write operations the service accepts.
type CommandKind string

const (
	CommandAdd        CommandKind = "item_add"
	CommandUpdate     CommandKind = "item_update"
	CommandClose      CommandKind = "item_close"
	CommandUncomplete CommandKind = "item_uncomplete"
	CommandArchive    CommandKind = "item_archive"
	CommandDelete     CommandKind = "item_delete"
	CommandMove       CommandKind = "item_move"
)

// Command is one pending write. UUID identifies the command for idempotent
// submission and per-command status reporting; TempID is the provisional id
// an item_add refers to until the service assigns a real one.
type Command struct {
	Kind   CommandKind    `json:"type"`
	UUID   string         `json:"uuid"`
	TempID string         `json:"temp_id,omitempty"`
	Args   map[string]any `json:"args"`
}

var timeNow = func() time.Time { return time.Now().UTC() }

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// NewCommand builds a command targeting an existing item.
func NewCommand(kind CommandKind, args map[string]any) Command {
	return Command{Kind: kind, UUID: uuid.NewString(), Args: args}
}

// NewAddCommand builds an item_add carrying a fresh temp id.
func NewAddCommand(args map[string]any) Command {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	tempID := ulid.MustNew(t, entropy)
	return Command{Kind: CommandAdd, UUID: uuid.NewString(), TempID: tempID.String(), Args: args}
}

// Queue is the ordered list of not-yet-submitted commands. Append-only
// between commits; a successful commit drains it atomically, a failed one
// leaves it exactly as it was.
type Queue struct {
	cmds []Command
}

func (q *Queue) Push(cmds ...Command) {
	q.cmds = append(q.cmds, cmds...)
}

func (q *Queue) Len() int { return len(q.cmds) }

// Commands returns a copy; the caller cannot perturb queue order.
func (q *Queue) Commands() []Command {
	return append([]Command(nil), q.cmds...)
}

func (q *Queue) Clear() { q.cmds = nil }
