package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/traceid"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// IDs issues the trace ID of each command run. Nil means UUIDv7.
	IDs traceid.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the opload CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithIDs(traceid.UUIDv7Generator{})
}

// NewRootCommandWithIDs creates the root command with a custom trace ID
// generator, so tests get stable output.
func NewRootCommandWithIDs(ids traceid.Generator) *cobra.Command {
	opts := &RootOptions{IDs: ids}

	cmd := &cobra.Command{
		Use:   "opload",
		Short: "opload - quantum circuit instruction loader",
		Long: `Load quantum circuit instruction records into typed, validated operations.

Instruction files may be JSON, CUE or YAML and hold a single instruction,
a list of instructions, an object with "instructions", or a Qobj-style
object with "experiments".`,
		Version:      ir.ToolVersion,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newTraceID returns the trace ID for one command run.
func (o *RootOptions) newTraceID() string {
	if o.IDs == nil {
		return traceid.UUIDv7Generator{}.Generate()
	}
	return o.IDs.Generate()
}

// newLogger returns a text logger on w: Debug with --verbose, Warn otherwise.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
