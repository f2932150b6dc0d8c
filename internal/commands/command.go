// Package commands implements the tasklist subcommands. Data commands drive
// a view.Controller against the task API; serve runs the API itself.
package commands

import (
	"context"
	"flag"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

// Command is one tasklist subcommand.
type Command interface {
	// Name is the primary name typed on the command line.
	Name() string
	// Aliases are alternative names; they never show up in help headings.
	Aliases() []string
	// Synopsis is the one-line description shown by help.
	Synopsis() string
	// Usage is the invocation line shown by help.
	Usage() string

	// NeedsService reports whether the dispatcher must validate the client
	// config and connect to the task API before Run.
	NeedsService() bool

	// RegisterFlags adds the command's own flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional args left after flag
	// parsing and returns an exit code. svc is nil unless NeedsService.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// noFlags is embedded by commands that only take the common flags.
type noFlags struct{}

func (noFlags) RegisterFlags(*flag.FlagSet) {}
