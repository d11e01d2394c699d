package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/opload/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool // also check payload dimensions
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool      `json:"valid"`
	Instructions int       `json:"instructions"`
	Errors       []Failure `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate instruction records without emitting ops",
		Long: `Validate every instruction record in a circuit file.

All problems are reported, not only the first. With --strict, matrix,
diagonal and vector payloads must also match the size implied by the
qubits they act on.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "check payload dimensions against qubit counts")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	traceID := opts.newTraceID()
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
		TraceID: traceID,
	}
	logger := opts.newLogger(cmd.ErrOrStderr())

	loadResult, loadErrors := LoadCircuit(path, LoadModeCollectAll, logger, traceID)

	// Handle load errors (file not found, unsupported shape, etc.)
	if loadErr, ok := asLoadError(loadResult, loadErrors); ok {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}

	failures := make([]Failure, 0, len(loadErrors))
	for _, err := range loadErrors {
		failures = append(failures, describeFailure(err))
	}
	failures = append(failures, validateOps(loadResult, opts.Strict, logger, traceID)...)

	instructions := 0
	for _, c := range loadResult.Circuits {
		instructions += c.Instructions
	}

	if len(failures) > 0 {
		return outputValidationErrors(formatter, instructions, failures)
	}
	return outputValidateSuccess(formatter, instructions)
}

// validateOps re-checks every compiled op. Constructors already enforce the
// structural invariants, so in practice this only reports strict findings.
func validateOps(loaded *LoadResult, strict bool, logger *slog.Logger, traceID string) []Failure {
	var opts []compiler.Option
	if strict {
		opts = append(opts, compiler.WithDimensionChecks())
	}

	var failures []Failure
	for _, c := range loaded.Circuits {
		for i, op := range c.Ops {
			for _, verr := range compiler.Validate(op, opts...) {
				logger.Warn("instruction invalid",
					"circuit", c.Name,
					"index", c.Indices[i],
					"name", op.Name(),
					"code", verr.Code,
					"trace_id", traceID)
				failures = append(failures, Failure{
					Circuit: c.Name,
					Index:   c.Indices[i],
					Name:    op.Name(),
					Code:    verr.Code,
					Field:   verr.Field,
					Message: verr.Message,
					Line:    verr.Line,
				})
			}
		}
	}
	return failures
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, instructions int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Instructions: instructions})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d instruction(s) valid\n", instructions)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, instructions int, failures []Failure) error {
	summary := fmt.Sprintf("validation failed with %d error(s)", len(failures))

	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:        false,
			Instructions: instructions,
			Errors:       failures,
		}
		if err := formatter.Failure(failures[0].Code, failures[0].Message, result); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, summary)
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	renderFailures(formatter.Writer, failures)

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, summary)
}
