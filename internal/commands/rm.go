package commands

import (
	"context"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	noFlags
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "tasklist rm <ref>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRef(args, errOut)
	if code != exitcode.Success {
		return code
	}

	ctrl := newController(cfg, svc, errOut)
	id := ref.ID
	if !ref.IsID() {
		// Positions and numeric IDs only mean something against a fresh
		// list. Other IDs are sent as given and the server decides.
		task, code := resolveRef(ctx, ctrl, ref, errOut)
		if code != exitcode.Success {
			return code
		}
		id = task.ID
	}

	if err := ctrl.Delete(ctx, id); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
