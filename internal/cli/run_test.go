package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amirbrooks/todoist-action-cli/internal/api"
	"github.com/amirbrooks/todoist-action-cli/internal/cache"
	"github.com/amirbrooks/todoist-action-cli/internal/config"
	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.Local)

type fakeService struct {
	resp    *api.SyncResponse
	err     error
	syncs   int
	commits [][]api.Command
}

func (f *fakeService) Sync(ctx context.Context) (*api.SyncResponse, error) {
	f.syncs++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeService) SyncWithCommands(ctx context.Context, cmds []api.Command) (*api.SyncResponse, error) {
	f.commits = append(f.commits, cmds)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// fixtureState mirrors a small synced account: three Work tasks (p4 due
// today all-day, p1 overdue with a clock time, p2 due next week), one Home
// task with no due date, and one completed orphan task.
func fixtureState() tasks.Collection {
	return tasks.Collection{
		Tasks: []tasks.Task{
			{ID: "1", ProjectID: "p-work", Content: "Buy milk", Priority: 1,
				Due: &tasks.Due{Date: "2024-05-15", String: "May 15"}, LabelIDs: []string{"l1"}},
			{ID: "2", ProjectID: "p-work", Content: "Fix login bug", Priority: 4,
				Due: &tasks.Due{Date: "2024-05-14T10:00:00", String: "May 14 10am"}},
			{ID: "3", ProjectID: "p-home", Content: "Clean garage", Priority: 2},
			{ID: "4", ProjectID: "p-work", Content: "Weekly report", Priority: 3,
				Due: &tasks.Due{Date: "2024-05-20", String: "every monday", IsRecurring: true}},
			{ID: "5", ProjectID: "p-gone", Content: "Mystery errand", Priority: 1, Checked: true,
				Due: &tasks.Due{Date: "2024-05-10", String: "May 10"}, LabelIDs: []string{"l1", "l2"}},
		},
		Projects: []tasks.Project{
			{ID: "p-work", Name: "Work"},
			{ID: "p-home", Name: "Home"},
		},
		Labels: []tasks.Label{
			{ID: "l1", Name: "errand"},
			{ID: "l2", Name: "Urgent"},
		},
	}
}

func testContext(t *testing.T, svc api.Service) (*Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.CacheDir = dir
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Context{
		Config:  cfg,
		Service: svc,
		Cache:   cache.NewStore(dir),
		Stdout:  stdout,
		Stderr:  stderr,
		Stdin:   strings.NewReader(""),
		Now:     func() time.Time { return testNow },
	}, stdout, stderr
}

func seedCache(t *testing.T, ctx *Context) {
	t.Helper()
	state := fixtureState()
	snap := &cache.Snapshot{Tasks: state.Tasks, Projects: state.Projects, Labels: state.Labels}
	if err := ctx.Cache.Save(snap); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
}

func TestRunFilterSortPrintChain(t *testing.T) {
	ctx, stdout, stderr := testContext(t, &fakeService{})
	seedCache(t, ctx)
	code := run([]string{
		"-project", "Work*",
		"-sort", "priority_str,due_date_safe_dt", "ascending",
		"-print", "{priority_str} {content}",
	}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, stderr.String())
	}
	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	want := []string{
		"p1 Fix login bug",
		"p2 Weekly report",
		"p4 Buy milk",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestRunUnknownActionRejectsChainBeforeExecution(t *testing.T) {
	svc := &fakeService{resp: &api.SyncResponse{}}
	ctx, _, stderr := testContext(t, svc)
	seedCache(t, ctx)
	code := run([]string{"-sync", "-frobnicate"}, ctx)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if svc.syncs != 0 {
		t.Fatalf("no action may run when the chain has an unknown action")
	}
	if !strings.Contains(stderr.String(), "frobnicate") {
		t.Fatalf("error should name the unknown action: %s", stderr.String())
	}
}

func TestRunUnknownOperatorExitsUsage(t *testing.T) {
	ctx, _, _ := testContext(t, &fakeService{})
	seedCache(t, ctx)
	if code := run([]string{"-filter", "content", "matches", "x"}, ctx); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
}

func TestRunMutatorsQueueWithoutNetwork(t *testing.T) {
	svc := &fakeService{}
	ctx, stdout, _ := testContext(t, svc)
	seedCache(t, ctx)
	code := run([]string{"-project", "Work", "-close", "-show-queue"}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if svc.syncs != 0 || len(svc.commits) != 0 {
		t.Fatalf("mutators must not contact the service")
	}
	if ctx.Queue.Len() != 3 {
		t.Fatalf("expected 3 queued item_close commands, got %d", ctx.Queue.Len())
	}
	if !strings.Contains(stdout.String(), "item_close") {
		t.Fatalf("show-queue should render the pending commands: %s", stdout.String())
	}
}

func TestRunCommitDeclinedLeavesQueueAndAbortsChain(t *testing.T) {
	svc := &fakeService{}
	ctx, stdout, _ := testContext(t, svc)
	seedCache(t, ctx)
	ctx.Stdin = strings.NewReader("n\n")
	code := run([]string{"-p1", "-close", "-commit", "-print", "{content}"}, ctx)
	if code != ExitDeclined {
		t.Fatalf("expected exit %d, got %d", ExitDeclined, code)
	}
	if len(svc.commits) != 0 {
		t.Fatalf("declined commit must not reach the service")
	}
	if ctx.Queue.Len() != 1 {
		t.Fatalf("declined commit must leave the queue intact, got %d", ctx.Queue.Len())
	}
	// The chain aborts at the decline: the trailing -print must never run.
	if strings.Contains(stdout.String(), "Fix login bug") {
		t.Fatalf("actions after a declined commit must not run, got %q", stdout.String())
	}
}

func TestRunHandlerErrorsAreNotSwallowed(t *testing.T) {
	ctx, stdout, stderr := testContext(t, &fakeService{})
	seedCache(t, ctx)
	// An arity error mid-chain must stop the chain with a usage exit, not
	// fall through to the trailing -print with an empty collection.
	code := run([]string{"-sort", "content", "ascending", "extra", "-print", "{content}"}, ctx)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr.String(), "-sort") {
		t.Fatalf("error should name the failing action, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("actions after a failed action must not run, got %q", stdout.String())
	}
}

func TestRunCommitFailureKeepsQueueForRetry(t *testing.T) {
	svc := &fakeService{err: &api.SyncError{Op: "commit", Err: context.DeadlineExceeded}}
	ctx, _, _ := testContext(t, svc)
	seedCache(t, ctx)
	code := run([]string{"-project", "Work", "-close", "-yes", "-commit"}, ctx)
	if code != ExitSync {
		t.Fatalf("expected exit %d, got %d", ExitSync, code)
	}
	if ctx.Queue.Len() != 3 {
		t.Fatalf("failed commit must leave the queue intact, got %d", ctx.Queue.Len())
	}
}

func TestRunCommitSuccessDrainsQueueAndRefreshesState(t *testing.T) {
	state := fixtureState()
	svc := &fakeService{resp: &api.SyncResponse{
		Tasks:    state.Tasks,
		Projects: state.Projects,
		Labels:   state.Labels,
	}}
	ctx, stdout, stderr := testContext(t, svc)
	seedCache(t, ctx)
	code := run([]string{"-project", "Work", "-rename", "Renamed", "-yes", "-commit"}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, stderr.String())
	}
	if len(svc.commits) != 1 || len(svc.commits[0]) != 3 {
		t.Fatalf("expected one batch of 3 commands, got %#v", svc.commits)
	}
	if ctx.Queue.Len() != 0 {
		t.Fatalf("successful commit must drain the queue, got %d", ctx.Queue.Len())
	}
	if !strings.Contains(stdout.String(), "Committed 3 command(s).") {
		t.Fatalf("expected a commit confirmation, got %s", stdout.String())
	}
}

func TestRunTwoCommitPromptsShareOneStdinReader(t *testing.T) {
	state := fixtureState()
	svc := &fakeService{resp: &api.SyncResponse{
		Tasks:    state.Tasks,
		Projects: state.Projects,
		Labels:   state.Labels,
	}}
	ctx, _, stderr := testContext(t, svc)
	seedCache(t, ctx)
	// Both prompts read from the same buffered stdin; the second answer
	// must not be lost to a reader the first prompt threw away.
	ctx.Stdin = strings.NewReader("y\ny\n")
	code := run([]string{"-p1", "-close", "-commit", "-project", "Home", "-delete", "-commit"}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, stderr.String())
	}
	if len(svc.commits) != 2 {
		t.Fatalf("expected two commit batches, got %d", len(svc.commits))
	}
	if ctx.Queue.Len() != 0 {
		t.Fatalf("expected a drained queue, got %d", ctx.Queue.Len())
	}
}

func TestRunSyncRefreshesCacheAndKeepsQueue(t *testing.T) {
	state := fixtureState()
	svc := &fakeService{resp: &api.SyncResponse{
		Tasks:     state.Tasks[:1],
		Projects:  state.Projects,
		SyncToken: "tok-2",
	}}
	ctx, _, _ := testContext(t, svc)
	seedCache(t, ctx)
	code := run([]string{"-project", "Work", "-close", "-sync", "-print", "{content}"}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if svc.syncs != 1 {
		t.Fatalf("expected one sync call, got %d", svc.syncs)
	}
	// The read-only sync must not drain the mutation queue.
	if ctx.Queue.Len() != 3 {
		t.Fatalf("sync must keep the queue, got %d", ctx.Queue.Len())
	}
	snap, err := ctx.Cache.Load()
	if err != nil || snap == nil {
		t.Fatalf("expected a cache snapshot after sync: %v", err)
	}
	if snap.SyncToken != "tok-2" || len(snap.Tasks) != 1 {
		t.Fatalf("cache should hold the freshly synced state, got %#v", snap)
	}
}

func TestRunAddTaskValidatesNames(t *testing.T) {
	ctx, _, stderr := testContext(t, &fakeService{})
	seedCache(t, ctx)
	code := run([]string{"-add-task", "New", "thing", "project=Nowhere"}, ctx)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr.String(), "Nowhere") {
		t.Fatalf("error should name the unknown project: %s", stderr.String())
	}
	if ctx.Queue.Len() != 0 {
		t.Fatalf("failed validation must queue nothing, got %d", ctx.Queue.Len())
	}

	code = run([]string{"-add-task", "New", "thing", "project=Home", "priority=p2", "labels=errand"}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, stderr.String())
	}
	cmds := ctx.Queue.Commands()
	if len(cmds) != 1 || cmds[0].Kind != api.CommandAdd || cmds[0].TempID == "" {
		t.Fatalf("expected one item_add with a temp id, got %#v", cmds)
	}
	if cmds[0].Args["content"] != "New thing" || cmds[0].Args["priority"] != 3 {
		t.Fatalf("unexpected add args: %#v", cmds[0].Args)
	}
}

func TestRunInjectToggleDisablesDerivedKeys(t *testing.T) {
	ctx, _, _ := testContext(t, &fakeService{})
	seedCache(t, ctx)
	code := run([]string{
		"inject_task_labels_fields=0",
		"-filter", "label_names", "icontains", "errand",
	}, ctx)
	if code != ExitUsage {
		t.Fatalf("expected the disabled derived key to be a usage error, got %d", code)
	}
}

func TestRunEmptyArgvPrintsHelp(t *testing.T) {
	ctx, _, stderr := testContext(t, &fakeService{})
	if code := run(nil, ctx); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("expected the help text, got %s", stderr.String())
	}
}

func TestRunDuePredicateUsesContextClock(t *testing.T) {
	ctx, stdout, stderr := testContext(t, &fakeService{})
	seedCache(t, ctx)
	code := run([]string{"-due", "-print", "{content}"}, ctx)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, stderr.String())
	}
	got := strings.TrimRight(stdout.String(), "\n")
	if got != "Buy milk\nFix login bug" {
		t.Fatalf("expected the two due tasks, got %q", got)
	}
}
