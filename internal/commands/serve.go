package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/server"
	"tasklist/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command, which runs the task API.
type ServeCmd struct {
	addr   string
	driver string
	dsn    string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the task API server" }
func (c *ServeCmd) Usage() string      { return "tasklist serve [--addr <addr>] [--driver <name>] [--dsn <dsn>]" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.driver, "driver", "", "")
	fs.StringVar(&c.dsn, "dsn", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.addr != "" {
		cfg.Server.Addr = c.addr
	}
	if c.driver != "" {
		cfg.Server.Driver = c.driver
	}
	if c.dsn != "" {
		cfg.Server.DSN = c.dsn
	}
	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	logger := logging.New(errOut, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.Debug))
	logger.SetReportTimestamp(true)

	store, err := server.OpenStore(ctx, cfg.Server)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	defer store.Close()
	logger.Info("store opened", "driver", cfg.Server.Driver)

	if err := server.New(store, logger).Run(ctx, cfg.Server.Addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
