package view_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tasklist/internal/logging"
	"tasklist/internal/service"
	"tasklist/internal/testutil"
	"tasklist/internal/view"
)

func newController(t *testing.T, svc *testutil.FakeService, opts ...view.Option) (*view.Controller, *bytes.Buffer) {
	t.Helper()
	var logBuf bytes.Buffer
	opts = append([]view.Option{view.WithLogger(logging.NewTest(&logBuf))}, opts...)
	return view.New(svc, opts...), &logBuf
}

func TestLoad_ReplacesList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	svc.AddTask("b", "two", true)

	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := ctrl.Tasks()
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "b" || !tasks[1].Completed {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestLoad_FailureLeavesListEmptyAndLogs(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	svc.ListTasksErr = errors.New("connection refused")

	ctrl, logBuf := newController(t, svc)
	err := ctrl.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(ctrl.Tasks()) != 0 {
		t.Errorf("expected empty list, got %+v", ctrl.Tasks())
	}
	if !strings.Contains(logBuf.String(), "list tasks failed") || !strings.Contains(logBuf.String(), "connection refused") {
		t.Errorf("expected failure in log, got %q", logBuf.String())
	}
}

func TestAdd_BuyMilk(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "existing", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := len(ctrl.Tasks())

	ctrl.SetInput("Buy milk")
	if err := ctrl.Add(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := ctrl.Tasks()
	if len(tasks) != before+1 {
		t.Fatalf("expected %d tasks, got %d", before+1, len(tasks))
	}
	added := tasks[len(tasks)-1]
	if added.ID == "" || added.Text != "Buy milk" || added.Completed {
		t.Errorf("unexpected added task: %+v", added)
	}
	if ctrl.Input() != "" {
		t.Errorf("expected input cleared, got %q", ctrl.Input())
	}

	// The server agrees after a fresh fetch.
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(ctrl.Tasks()) != before+1 {
		t.Errorf("expected %d tasks after reload, got %d", before+1, len(ctrl.Tasks()))
	}
}

func TestAdd_BlankTextMakesNoCall(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		svc := testutil.NewFakeService()
		ctrl, _ := newController(t, svc)

		ctrl.SetInput(input)
		err := ctrl.Add(context.Background())
		if !errors.Is(err, view.ErrEmptyText) {
			t.Errorf("input %q: expected ErrEmptyText, got %v", input, err)
		}
		if svc.TotalCalls() != 0 {
			t.Errorf("input %q: expected no store calls, got %d", input, svc.TotalCalls())
		}
		if len(ctrl.Tasks()) != 0 {
			t.Errorf("input %q: list should be unchanged", input)
		}
		if ctrl.Input() != input {
			t.Errorf("input %q: input should be untouched, got %q", input, ctrl.Input())
		}
	}
}

func TestAdd_FailureLeavesListAndInput(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "existing", false)
	ctrl, logBuf := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc.CreateTaskErr = errors.New("network unreachable")

	ctrl.SetInput("Buy milk")
	if err := ctrl.Add(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if ctrl.Input() != "Buy milk" {
		t.Errorf("expected input untouched, got %q", ctrl.Input())
	}
	tasks := ctrl.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("expected list unchanged, got %+v", tasks)
	}
	if !strings.Contains(logBuf.String(), "add task failed") {
		t.Errorf("expected failure logged, got %q", logBuf.String())
	}
}

func TestToggle_TwiceRestoresFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "walk dog", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ctrl.Toggle(context.Background(), "a"); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if task, _ := ctrl.Task("a"); !task.Completed {
		t.Error("expected completed after first toggle")
	}
	if err := ctrl.Toggle(context.Background(), "a"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if task, _ := ctrl.Task("a"); task.Completed {
		t.Error("expected not completed after second toggle")
	}
	if stored := svc.Snapshot(); stored[0].Completed {
		t.Error("server copy should be back to not completed")
	}

	first := svc.Updates[0].Update
	if first.Text == nil || *first.Text != "walk dog" || first.Completed == nil || !*first.Completed {
		t.Errorf("toggle should send text and the flipped flag, got %+v", first)
	}
}

func TestToggle_FailureLeavesFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "walk dog", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc.UpdateTaskErr = errors.New("boom")

	if err := ctrl.Toggle(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
	if task, _ := ctrl.Task("a"); task.Completed {
		t.Error("flag must not flip on failure")
	}
}

func TestToggle_UnknownTask(t *testing.T) {
	svc := testutil.NewFakeService()
	ctrl, _ := newController(t, svc)

	if err := ctrl.Toggle(context.Background(), "nope"); !errors.Is(err, view.ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no calls, got %d", svc.TotalCalls())
	}
}

func TestToggle_FlipsLocalFlagNotResponseBody(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "walk dog", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Two toggles prepared from the same state both send completed=true,
	// but each successful outcome flips the local flag.
	req1, err := ctrl.PrepareToggle("a")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	req2, err := ctrl.PrepareToggle("a")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	o1 := req1(context.Background())
	o2 := req2(context.Background())
	_ = ctrl.Apply(o1)
	_ = ctrl.Apply(o2)

	if task, _ := ctrl.Task("a"); task.Completed {
		t.Error("two applied toggles should leave the local flag unchanged")
	}
	if stored := svc.Snapshot(); !stored[0].Completed {
		t.Error("last write on the server set completed=true")
	}
}

func TestEdit_SaveUpdatesOnlyText(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "walk dog", true)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ctrl.BeginEdit("a"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if ctrl.EditingID() != "a" || ctrl.EditBuffer() != "walk dog" {
		t.Errorf("unexpected edit state %q %q", ctrl.EditingID(), ctrl.EditBuffer())
	}
	ctrl.SetEditBuffer("walk the dog")
	if err := ctrl.SaveEdit(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ctrl.EditingID() != "" {
		t.Error("expected editing state cleared")
	}

	upd := svc.Updates[0].Update
	if upd.Completed != nil {
		t.Errorf("save should not send completed, got %v", *upd.Completed)
	}

	fresh := view.New(svc, view.WithLogger(logging.Discard()))
	if err := fresh.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, _ := fresh.Task("a")
	if got.Text != "walk the dog" || !got.Completed {
		t.Errorf("expected only text changed, got %+v", got)
	}
}

func TestEdit_LegacyResetsCompleted(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "walk dog", true)
	ctrl, _ := newController(t, svc, view.WithLegacyEdit(true))
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_ = ctrl.BeginEdit("a")
	ctrl.SetEditBuffer("walk the dog")
	if err := ctrl.SaveEdit(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	upd := svc.Updates[0].Update
	if upd.Completed == nil || *upd.Completed {
		t.Errorf("legacy save should send completed=false, got %+v", upd)
	}
	if task, _ := ctrl.Task("a"); task.Completed || task.Text != "walk the dog" {
		t.Errorf("unexpected local task %+v", task)
	}
	if stored := svc.Snapshot(); stored[0].Completed {
		t.Error("server copy should have completed reset")
	}
}

func TestEdit_StartingAnotherDiscardsBuffer(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	svc.AddTask("b", "two", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_ = ctrl.BeginEdit("a")
	ctrl.SetEditBuffer("one changed")
	_ = ctrl.BeginEdit("b")

	if ctrl.EditingID() != "b" || ctrl.EditBuffer() != "two" {
		t.Errorf("expected b in editing with its own text, got %q %q", ctrl.EditingID(), ctrl.EditBuffer())
	}
	if task, _ := ctrl.Task("a"); task.Text != "one" {
		t.Errorf("a should be unchanged, got %q", task.Text)
	}
	if svc.Calls("UpdateTask") != 0 {
		t.Error("nothing should be sent for the discarded edit")
	}
}

func TestEdit_SaveBlankMakesNoCall(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_ = ctrl.BeginEdit("a")
	ctrl.SetEditBuffer("  ")
	if err := ctrl.SaveEdit(context.Background()); !errors.Is(err, view.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if svc.Calls("UpdateTask") != 0 {
		t.Error("expected no update call")
	}
	if ctrl.EditingID() != "a" {
		t.Error("row should stay in editing")
	}
}

func TestEdit_SaveWithoutEditing(t *testing.T) {
	ctrl, _ := newController(t, testutil.NewFakeService())
	if err := ctrl.SaveEdit(context.Background()); !errors.Is(err, view.ErrNotEditing) {
		t.Errorf("expected ErrNotEditing, got %v", err)
	}
}

func TestEdit_SaveOutcomeKeepsNewerEdit(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	svc.AddTask("b", "two", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_ = ctrl.BeginEdit("a")
	ctrl.SetEditBuffer("one!")
	req, err := ctrl.PrepareSaveEdit()
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	_ = ctrl.BeginEdit("b")
	if err := ctrl.Apply(req(context.Background())); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if task, _ := ctrl.Task("a"); task.Text != "one!" {
		t.Errorf("expected a saved, got %q", task.Text)
	}
	if ctrl.EditingID() != "b" {
		t.Errorf("edit of b should survive, got %q", ctrl.EditingID())
	}
}

func TestEdit_FailureKeepsEditing(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc.UpdateTaskErr = errors.New("boom")

	_ = ctrl.BeginEdit("a")
	ctrl.SetEditBuffer("changed")
	if err := ctrl.SaveEdit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if task, _ := ctrl.Task("a"); task.Text != "one" {
		t.Errorf("text must not change on failure, got %q", task.Text)
	}
	if ctrl.EditingID() != "a" || ctrl.EditBuffer() != "changed" {
		t.Error("edit state must be kept on failure")
	}
}

func TestDelete_RemovesOnlyThatTask(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	svc.AddTask("b", "two", false)
	svc.AddTask("c", "three", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ctrl.Delete(context.Background(), "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks := ctrl.Tasks()
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "c" {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}
}

func TestDelete_MissingLeavesList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ctrl.Delete(context.Background(), "zzz"); err == nil {
		t.Fatal("expected not found error from store")
	}
	if len(ctrl.Tasks()) != 1 {
		t.Errorf("list should be unchanged, got %+v", ctrl.Tasks())
	}
	if svc.Calls("DeleteTask") != 1 {
		t.Errorf("expected one delete call, got %d", svc.Calls("DeleteTask"))
	}
}

func TestDelete_FailureLeavesList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc.DeleteTaskErr = errors.New("boom")

	if err := ctrl.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
	if len(ctrl.Tasks()) != 1 {
		t.Errorf("list should be unchanged")
	}
}

func TestTasks_ReturnsCopy(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "one", false)
	ctrl, _ := newController(t, svc)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	tasks := ctrl.Tasks()
	tasks[0] = service.Task{ID: "x"}
	if task, ok := ctrl.Task("a"); !ok || task.Text != "one" {
		t.Error("mutating the returned slice must not affect the controller")
	}
}
