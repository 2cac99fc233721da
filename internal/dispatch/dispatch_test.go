package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gtaskbot/internal/commands"
	"gtaskbot/internal/config"
	"gtaskbot/internal/dispatch"
	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
	"gtaskbot/internal/testutil"
)

// countingFactory returns svc and records how many handles were built.
type countingFactory struct {
	svc   *testutil.FakeService
	err   error
	calls int
}

func (f *countingFactory) build(ctx context.Context, cfg *config.Config) (service.Service, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.svc, nil
}

func newDispatcher(svc *testutil.FakeService) (*dispatch.Dispatcher, *countingFactory) {
	f := &countingFactory{svc: svc}
	return dispatch.NewDispatcher(commands.DefaultRegistry, f.build, &config.Config{}, nil), f
}

func TestDispatcher_AddThenShow(t *testing.T) {
	svc := testutil.NewFakeService()
	d, f := newDispatcher(svc)
	ctx := context.Background()

	if msg := d.Add(ctx, "Pay rent"); msg.Text != "✅ Added: Pay rent" {
		t.Fatalf("unexpected add reply %q", msg.Text)
	}
	if msg := d.Add(ctx, "Buy milk"); msg.Text != "✅ Added: Buy milk" {
		t.Fatalf("unexpected add reply %q", msg.Text)
	}

	msg := d.Show(ctx)
	expected := "📋 Your tasks:\n\n1. Buy milk\n2. Pay rent"
	if msg.Text != expected {
		t.Errorf("expected %q, got %q", expected, msg.Text)
	}
	if len(msg.Controls) != 2 || msg.Controls[0].Token != "del_0" || msg.Controls[1].Token != "del_1" {
		t.Errorf("unexpected controls %+v", msg.Controls)
	}
	if f.calls != 3 {
		t.Errorf("expected a fresh store handle per action, got %d", f.calls)
	}
}

func TestDispatcher_AddEmptyBuildsNoStore(t *testing.T) {
	svc := testutil.NewFakeService()
	d, f := newDispatcher(svc)

	msg := d.Dispatch(context.Background(), dispatch.Action{Kind: dispatch.KindCommand, Command: "add", Payload: "   "})

	expected := "⚠️ " + commands.AddUsageHint
	if msg.Text != expected {
		t.Errorf("expected %q, got %q", expected, msg.Text)
	}
	if f.calls != 0 {
		t.Errorf("expected no store handle, got %d", f.calls)
	}
	if len(svc.CreateCalls) != 0 {
		t.Errorf("expected no insert, got %v", svc.CreateCalls)
	}
}

func TestDispatcher_FreeTextIsAdded(t *testing.T) {
	svc := testutil.NewFakeService()
	d, _ := newDispatcher(svc)

	msg := d.Dispatch(context.Background(), dispatch.Action{Kind: dispatch.KindText, ChatID: 7, Payload: "Call mom"})
	if msg.Text != "✅ Added: Call mom" {
		t.Errorf("unexpected reply %q", msg.Text)
	}
	if len(svc.CreateCalls) != 1 || svc.CreateCalls[0] != "Call mom" {
		t.Errorf("expected one insert of Call mom, got %v", svc.CreateCalls)
	}
}

func TestDispatcher_Aliases(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("id-1", "Buy milk")
	d, _ := newDispatcher(svc)

	for _, name := range []string{"list", "show", "tasks"} {
		msg := d.Dispatch(context.Background(), dispatch.Action{Kind: dispatch.KindCommand, Command: name})
		if !strings.HasPrefix(msg.Text, output.ListHeader) {
			t.Errorf("/%s: expected list output, got %q", name, msg.Text)
		}
	}

	msg := d.Dispatch(context.Background(), dispatch.Action{Kind: dispatch.KindCommand, Command: "new", Payload: "Pay rent"})
	if msg.Text != "✅ Added: Pay rent" {
		t.Errorf("/new: unexpected reply %q", msg.Text)
	}
}

func TestDispatcher_ShowEmpty(t *testing.T) {
	d, _ := newDispatcher(testutil.NewFakeService())

	msg := d.Show(context.Background())
	if msg.Text != output.NoPendingTasksText || len(msg.Controls) != 0 {
		t.Errorf("unexpected empty list reply %+v", msg)
	}
}

func TestDispatcher_StartNeedsNoStore(t *testing.T) {
	d, f := newDispatcher(testutil.NewFakeService())

	msg := d.Dispatch(context.Background(), dispatch.Action{Kind: dispatch.KindCommand, Command: "start", ChatID: 42})
	if msg.Text != "Hello! Your Chat ID is: 42" {
		t.Errorf("unexpected reply %q", msg.Text)
	}
	if f.calls != 0 {
		t.Errorf("expected no store handle, got %d", f.calls)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, f := newDispatcher(testutil.NewFakeService())

	msg := d.Dispatch(context.Background(), dispatch.Action{Kind: dispatch.KindCommand, Command: "frobnicate"})

	expected := "Unknown command: /frobnicate\n" + dispatch.UnknownCommandHint
	if msg.Text != expected {
		t.Errorf("expected %q, got %q", expected, msg.Text)
	}
	if f.calls != 0 {
		t.Errorf("expected no store handle, got %d", f.calls)
	}
}

func TestDispatcher_DeleteFlow(t *testing.T) {
	svc := testutil.NewFakeService(
		service.Task{ID: "id-a", Title: "A"},
		service.Task{ID: "id-b", Title: "B"},
		service.Task{ID: "id-c", Title: "C"},
	)
	d, _ := newDispatcher(svc)
	ctx := context.Background()

	shown := d.Show(ctx)
	token := shown.Controls[1].Token

	msg := d.Dispatch(ctx, dispatch.Action{Kind: dispatch.KindControl, Payload: token})
	if msg.Text != "🗑 Deleted: B" {
		t.Errorf("unexpected reply %q", msg.Text)
	}

	msg = d.Show(ctx)
	expected := "📋 Your tasks:\n\n1. A\n2. C"
	if msg.Text != expected {
		t.Errorf("expected %q, got %q", expected, msg.Text)
	}
}

func TestDispatcher_StaleControl(t *testing.T) {
	svc := testutil.NewFakeService(service.Task{ID: "id-a", Title: "A"})
	d, _ := newDispatcher(svc)

	msg := d.ResolveControl(context.Background(), "del_5")

	expected := "⚠️ Task not found, list may have changed. Use /list to refresh."
	if msg.Text != expected {
		t.Errorf("expected %q, got %q", expected, msg.Text)
	}
	if len(svc.DeleteCalls) != 0 {
		t.Errorf("expected no delete, got %v", svc.DeleteCalls)
	}
}

func TestDispatcher_MalformedControl(t *testing.T) {
	svc := testutil.NewFakeService(service.Task{ID: "id-a", Title: "A"})
	d, _ := newDispatcher(svc)

	msg := d.ResolveControl(context.Background(), "del_-1")
	if msg.Text != "⚠️ Invalid action. Use /list to refresh." {
		t.Errorf("unexpected reply %q", msg.Text)
	}
	if svc.ListCalls != 0 || len(svc.DeleteCalls) != 0 {
		t.Errorf("expected no store traffic, got %d lists and %v deletes", svc.ListCalls, svc.DeleteCalls)
	}
}

func TestDispatcher_UnknownControlIgnored(t *testing.T) {
	d, f := newDispatcher(testutil.NewFakeService())

	msg := d.ResolveControl(context.Background(), "done_0")
	if msg.Text != "" || len(msg.Controls) != 0 {
		t.Errorf("expected empty reply, got %+v", msg)
	}
	if f.calls != 0 {
		t.Errorf("expected no store handle, got %d", f.calls)
	}
}

func TestDispatcher_StoreErrors(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = errors.New("request timed out")
	svc.CreateErr = errors.New("credentials expired or revoked")
	d, _ := newDispatcher(svc)

	if msg := d.Show(context.Background()); msg.Text != "❌ Error: request timed out" {
		t.Errorf("unexpected show reply %q", msg.Text)
	}
	if msg := d.Add(context.Background(), "Buy milk"); msg.Text != "❌ Error: credentials expired or revoked" {
		t.Errorf("unexpected add reply %q", msg.Text)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	f := &countingFactory{err: errors.New("oauth client misconfigured")}
	d := dispatch.NewDispatcher(commands.DefaultRegistry, f.build, &config.Config{}, nil)

	msg := d.Show(context.Background())
	if msg.Text != "❌ Error: oauth client misconfigured" {
		t.Errorf("unexpected reply %q", msg.Text)
	}

	msg = d.ResolveControl(context.Background(), "del_0")
	if msg.Text != "❌ Error: oauth client misconfigured" {
		t.Errorf("unexpected reply %q", msg.Text)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[dispatch.Kind]string{
		dispatch.KindCommand: "command",
		dispatch.KindText:    "text",
		dispatch.KindControl: "control",
		dispatch.Kind(99):    "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d): expected %q, got %q", int(k), want, got)
		}
	}
}
