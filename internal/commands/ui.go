package commands

import (
	"context"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/service"
	"tasklist/internal/ui"
	"tasklist/internal/view"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command. The terminal belongs to the UI, so
// logs go to the log file.
type UICmd struct {
	noFlags
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"tui"} }
func (c *UICmd) Synopsis() string   { return "Open the interactive task list" }
func (c *UICmd) Usage() string      { return "tasklist ui" }
func (c *UICmd) NeedsService() bool { return true }

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	logger, f, err := logging.OpenFile(cfg.LogFilePath(), logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.Debug))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer f.Close()

	logger.Info("ui started", "base_url", cfg.BaseURL)
	ctrl := view.New(svc, view.WithLogger(logger), view.WithLegacyEdit(cfg.LegacyEdit))
	if err := ui.Run(ctx, ctrl); err != nil {
		logger.Error("ui stopped", "err", err)
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
