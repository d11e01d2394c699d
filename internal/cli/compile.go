package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/opload/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output   string // output file path
	FailFast bool   // stop at the first failing instruction
}

// CompiledOp is one compiled instruction with its cache key.
type CompiledOp struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Op    ir.Op  `json:"op"`
}

// CompiledCircuit holds the compiled ops of one circuit.
type CompiledCircuit struct {
	Name string       `json:"name"`
	Ops  []CompiledOp `json:"ops"`
}

// CompilationResult holds every compiled circuit of one file.
type CompilationResult struct {
	IRVersion string            `json:"ir_version"`
	Circuits  []CompiledCircuit `json:"circuits"`
}

// CompilationFailure is the data payload of a failed compile.
type CompilationFailure struct {
	Failures []Failure `json:"failures"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile instruction records to typed operations",
		Long: `Compile a circuit's instruction records into typed operations.

Every instruction is checked, canonicalised and given a content-addressed
cache key. By default all failing instructions are reported; use
--fail-fast to stop at the first one.

Exit codes:
  0 - All instructions compiled
  1 - One or more instructions failed
  2 - Command error (unreadable file, unsupported input, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop at the first failing instruction")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	traceID := opts.newTraceID()
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
		TraceID: traceID,
	}
	logger := opts.newLogger(cmd.ErrOrStderr())

	mode := LoadModeCollectAll
	if opts.FailFast {
		mode = LoadModeFailFast
	}
	loadResult, loadErrors := LoadCircuit(path, mode, logger, traceID)

	// Handle load errors (file not found, unsupported shape, etc.)
	if loadErr, ok := asLoadError(loadResult, loadErrors); ok {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result, err := buildCompilationResult(loadResult)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "computing cache keys", err)
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// buildCompilationResult attaches cache keys to the loaded ops.
func buildCompilationResult(loaded *LoadResult) (*CompilationResult, error) {
	result := &CompilationResult{
		IRVersion: ir.IRVersion,
		Circuits:  make([]CompiledCircuit, 0, len(loaded.Circuits)),
	}
	for _, c := range loaded.Circuits {
		compiled := CompiledCircuit{Name: c.Name, Ops: make([]CompiledOp, 0, len(c.Ops))}
		for i, op := range c.Ops {
			key, err := ir.CacheKey(op)
			if err != nil {
				return nil, fmt.Errorf("circuit %s instruction %d: %w", c.Name, c.Indices[i], err)
			}
			compiled.Ops = append(compiled.Ops, CompiledOp{
				Index: c.Indices[i],
				Kind:  string(op.Kind()),
				Key:   key,
				Op:    op,
			})
		}
		result.Circuits = append(result.Circuits, compiled)
	}
	return result, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	total := 0
	for _, c := range result.Circuits {
		total += len(c.Ops)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d instruction(s) in %d circuit(s)\n\n", total, len(result.Circuits))
	for _, c := range result.Circuits {
		fmt.Fprintf(formatter.Writer, "%s:\n", c.Name)
		renderOpTable(formatter.Writer, c.Ops)
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled ops to %s\n", outputFile)
	}
	return nil
}

// keyPrefixLen is how much of a cache key the text table shows.
const keyPrefixLen = 12

func renderOpTable(w io.Writer, ops []CompiledOp) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Kind", "Qubits", "Key"})
	for _, c := range ops {
		t.AppendRow(table.Row{c.Index, c.Op.Name(), c.Kind, formatQubits(c.Op.ActsOn()), shortKey(c.Key)})
	}
	t.Render()
}

func formatQubits(qubits []uint64) string {
	if len(qubits) == 0 {
		return "-"
	}
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprint(q)
	}
	return strings.Join(parts, ",")
}

func shortKey(key string) string {
	if len(key) <= keyPrefixLen {
		return key
	}
	return key[:keyPrefixLen]
}

// outputCompileErrors outputs every failing instruction.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	failures := make([]Failure, len(errs))
	for i, err := range errs {
		failures[i] = describeFailure(err)
	}
	summary := fmt.Sprintf("compilation failed with %d error(s)", len(errs))

	if formatter.Format == "json" {
		if err := formatter.Failure(failures[0].Code, summary, CompilationFailure{Failures: failures}); err != nil {
			return err
		}
		// Bad instructions are validation failures (exit code 1)
		return NewExitError(ExitFailure, summary)
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	renderFailures(formatter.Writer, failures)

	// Bad instructions are validation failures (exit code 1)
	return NewExitError(ExitFailure, summary)
}

// renderFailures prints failures grouped under a location line.
func renderFailures(w io.Writer, failures []Failure) {
	for _, f := range failures {
		loc := f.Circuit
		if f.Index >= 0 {
			loc = fmt.Sprintf("%s[%d]", f.Circuit, f.Index)
		}
		if f.Name != "" {
			loc += " " + f.Name
		}
		if f.Line > 0 {
			loc += fmt.Sprintf(" (line %d)", f.Line)
		}
		fmt.Fprintln(w, loc)
		if f.Field != "" {
			fmt.Fprintf(w, "  %s: %s: %s\n\n", f.Code, f.Field, f.Message)
		} else {
			fmt.Fprintf(w, "  %s: %s\n\n", f.Code, f.Message)
		}
	}
}

// writeResultToFile writes the compilation result to a file.
// Ops marshal to their canonical wire form; the envelope is indented for
// readability.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
