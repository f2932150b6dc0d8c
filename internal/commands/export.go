package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	file   string
}

// SetFormat sets the --format flag (for testing).
func (c *ExportCmd) SetFormat(format string) {
	c.format = format
}

// SetFile sets the --output flag (for testing).
func (c *ExportCmd) SetFile(path string) {
	c.file = path
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Write all tasks as json, csv or pdf" }
func (c *ExportCmd) Usage() string      { return "tasklist export [--format json|csv|pdf] [--output <file>]" }
func (c *ExportCmd) NeedsService() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", output.FormatJSON, "")
	fs.StringVar(&c.file, "output", "", "")
	fs.StringVar(&c.file, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format := strings.ToLower(c.format)
	if format == "" {
		format = output.FormatJSON
	}
	if !slices.Contains(output.Formats, format) {
		fmt.Fprintf(errOut, "error: unknown format: %s\n", c.format)
		return exitcode.UserError
	}
	if format == output.FormatPDF && c.file == "" {
		fmt.Fprintln(errOut, "error: pdf export requires --output")
		return exitcode.UserError
	}

	tasks, code := loadTasks(ctx, newController(cfg, svc, errOut), errOut)
	if code != exitcode.Success {
		return code
	}

	data, err := output.Export(tasks, format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.file == "" {
		_, _ = out.Write(data)
		return exitcode.Success
	}
	if err := os.WriteFile(c.file, data, 0o644); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	printOK(cfg, out)
	return exitcode.Success
}
