package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

// newController builds the view controller used by the data commands.
// Controller logs go to errOut only with --debug; the command reports
// failures itself.
func newController(cfg *config.Config, svc service.Service, errOut io.Writer) *view.Controller {
	logger := logging.Discard()
	if cfg.Debug {
		logger = logging.New(errOut, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, true))
	}
	return view.New(svc, view.WithLogger(logger), view.WithLegacyEdit(cfg.LegacyEdit))
}

// loadTasks fetches the list through the controller.
func loadTasks(ctx context.Context, ctrl *view.Controller, errOut io.Writer) ([]service.Task, int) {
	if err := ctrl.Load(ctx); err != nil {
		return nil, reportError(errOut, err)
	}
	return ctrl.Tasks(), exitcode.Success
}

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, view.ErrEmptyText):
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	case errors.Is(err, view.ErrUnknownTask), errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

func printOK(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}
