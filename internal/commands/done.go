package commands

import (
	"context"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips the completed flag, so
// running it on a completed task reopens it.
type DoneCmd struct {
	noFlags
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task's completed flag" }
func (c *DoneCmd) Usage() string      { return "tasklist done <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRef(args, errOut)
	if code != exitcode.Success {
		return code
	}

	ctrl := newController(cfg, svc, errOut)
	task, code := resolveRef(ctx, ctrl, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctrl.Toggle(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}

// parseRef parses the task reference argument and reports errors.
func parseRef(args []string, errOut io.Writer) (TaskRef, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return TaskRef{}, exitcode.UserError
	}
	return ref, exitcode.Success
}

// resolveRef loads the list and finds the referenced task.
func resolveRef(ctx context.Context, ctrl *view.Controller, ref TaskRef, errOut io.Writer) (service.Task, int) {
	tasks, code := loadTasks(ctx, ctrl, errOut)
	if code != exitcode.Success {
		return service.Task{}, code
	}
	task, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}
