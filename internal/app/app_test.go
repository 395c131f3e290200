package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tarefas/tests/testutil"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	return New(testutil.NewTestStore(t), &out), &out
}

func TestAddAndList(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	if err := a.Run(ctx, []string{"add", "buy", "milk"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(out.String(), "added ") {
		t.Errorf("add output = %q", out.String())
	}

	out.Reset()
	if err := a.Run(ctx, []string{"list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "buy milk") {
		t.Errorf("list output missing task: %q", out.String())
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.Run(context.Background(), []string{"add", "   "}); err == nil {
		t.Error("empty task text should be rejected")
	}
}

func TestAddListRejectsEmptyName(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.Run(context.Background(), []string{"add-list", " "}); err == nil {
		t.Error("empty list name should be rejected")
	}
}

func TestDoneRoundTrip(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	if err := a.Run(ctx, []string{"add", "call plumber"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.TrimSpace(strings.TrimPrefix(out.String(), "added "))

	out.Reset()
	if err := a.Run(ctx, []string{"done", id}); err != nil {
		t.Fatalf("done: %v", err)
	}
	if !strings.Contains(out.String(), "[x]") {
		t.Errorf("done output = %q, want a checked mark", out.String())
	}

	out.Reset()
	if err := a.Run(ctx, []string{"undone", id}); err != nil {
		t.Fatalf("undone: %v", err)
	}
	if !strings.Contains(out.String(), "[ ]") {
		t.Errorf("undone output = %q, want an open mark", out.String())
	}
}

func TestDoneMissingTaskIsNotAnError(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.Run(context.Background(), []string{"done", "no-such-id"}); err != nil {
		t.Fatalf("missing task should not fail the command: %v", err)
	}
	if !strings.Contains(out.String(), "no task with id") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.Run(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "schema version: 2") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.Run(context.Background(), []string{"frobnicate"}); err == nil {
		t.Error("unknown command should return an error")
	}
}
