package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	noFlags
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Replace a task's text" }
func (c *EditCmd) Usage() string      { return "tasklist edit <ref> <text...>" }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRef(args, errOut)
	if code != exitcode.Success {
		return code
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	ctrl := newController(cfg, svc, errOut)
	task, code := resolveRef(ctx, ctrl, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctrl.BeginEdit(task.ID); err != nil {
		return reportError(errOut, err)
	}
	ctrl.SetEditBuffer(text)
	if err := ctrl.SaveEdit(ctx); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
