package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/opload/internal/compiler"
	"github.com/roach88/opload/internal/ir"
)

// LoadMode controls how errors are handled during circuit loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

func (m LoadMode) compilerMode() compiler.Mode {
	if m == LoadModeFailFast {
		return compiler.FailFast
	}
	return compiler.CollectAll
}

// Circuit is one named list of compiled instructions.
type Circuit struct {
	Name string
	Ops  []ir.Op
	// Indices[i] is the position of Ops[i] in the source list.
	Indices []int
	// Instructions counts every record in the source list, failed or not.
	Instructions int
}

// LoadResult contains the circuits read from one instruction file.
type LoadResult struct {
	Path     string
	Circuits []Circuit
	CUEValue cue.Value // the raw document, for additional processing
}

// OpCount returns the number of compiled ops across all circuits.
func (r *LoadResult) OpCount() int {
	n := 0
	for _, c := range r.Circuits {
		n += len(c.Ops)
	}
	return n
}

// LoadError represents a file-level error that stops loading entirely.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CircuitError attributes an instruction failure to the circuit it came from.
type CircuitError struct {
	Circuit string
	Err     error // usually a *compiler.InstructionError
}

func (e *CircuitError) Error() string {
	return fmt.Sprintf("circuit %s: %v", e.Circuit, e.Err)
}

func (e *CircuitError) Unwrap() error {
	return e.Err
}

// Error code constants - unified across all CLI commands.
// Instruction failures use the compiler's E2xx codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // Instruction file does not parse
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Decoded YAML could not be encoded as CUE
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeFileType    = "E008" // Unsupported file extension
	ErrCodeShape       = "E009" // Document is not an instruction, list or experiment set
)

// LoadCircuit reads an instruction file and compiles every instruction in it.
//
// A nil result means the file itself could not be used; the single error is a
// *LoadError. Otherwise the errors are per-instruction *CircuitError values.
// In LoadModeFailFast loading stops at the first failing instruction.
func LoadCircuit(path string, mode LoadMode, logger *slog.Logger, traceID string) (*LoadResult, []error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("instruction file not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading instruction file: %v", err)}}
	}

	ctx := cuecontext.New()
	value, loadErr := decodeDocument(ctx, path, data)
	if loadErr != nil {
		return nil, []error{loadErr}
	}

	sources, loadErr := splitCircuits(ctx, value, defaultCircuitName(path))
	if loadErr != nil {
		return nil, []error{loadErr}
	}

	result := &LoadResult{Path: path, CUEValue: value}
	var errs []error
	for _, src := range sources {
		circuit, circuitErrs := compileSource(src, mode, logger, traceID)
		result.Circuits = append(result.Circuits, circuit)
		errs = append(errs, circuitErrs...)
		if mode == LoadModeFailFast && len(circuitErrs) > 0 {
			break
		}
	}

	logger.Debug("circuit file loaded",
		"path", path,
		"circuits", len(result.Circuits),
		"ops", result.OpCount(),
		"errors", len(errs),
		"trace_id", traceID)
	return result, errs
}

// decodeDocument turns file bytes into a CUE value according to the extension.
// JSON is a subset of CUE, so both go through the CUE compiler and keep
// file positions.
func decodeDocument(ctx *cue.Context, path string, data []byte) (cue.Value, *LoadError) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".cue":
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing %s: %v", filepath.Base(path), err)}
		}
		return v, nil
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing %s: %v", filepath.Base(path), err)}
		}
		v := ctx.Encode(doc)
		if err := v.Err(); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("encoding %s: %v", filepath.Base(path), err)}
		}
		return v, nil
	default:
		return cue.Value{}, &LoadError{
			Code:    ErrCodeFileType,
			Message: fmt.Sprintf("unsupported file type %q (want .json, .cue, .yaml or .yml)", ext),
		}
	}
}

// circuitSource is one instruction list awaiting compilation.
type circuitSource struct {
	name string
	list cue.Value
}

// splitCircuits recognises the accepted document shapes:
// a list of instructions, a single instruction object, an object with
// "instructions", or an object with "experiments" each holding "instructions".
func splitCircuits(ctx *cue.Context, v cue.Value, fallback string) ([]circuitSource, *LoadError) {
	switch v.Kind() {
	case cue.ListKind:
		return []circuitSource{{name: fallback, list: v}}, nil
	case cue.StructKind:
	default:
		return nil, &LoadError{
			Code:    ErrCodeShape,
			Message: fmt.Sprintf("document must be an object or a list, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}

	if exps := v.LookupPath(cue.ParsePath("experiments")); exps.Exists() {
		iter, err := exps.List()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeShape, Message: "experiments must be a list", Pos: exps.Pos()}
		}
		var sources []circuitSource
		for i := 0; iter.Next(); i++ {
			exp := iter.Value()
			instructions := exp.LookupPath(cue.ParsePath("instructions"))
			if !instructions.Exists() {
				return nil, &LoadError{
					Code:    ErrCodeShape,
					Message: fmt.Sprintf("experiments[%d] has no instructions", i),
					Pos:     exp.Pos(),
				}
			}
			sources = append(sources, circuitSource{
				name: headerName(exp, fmt.Sprintf("%s[%d]", fallback, i)),
				list: instructions,
			})
		}
		if len(sources) == 0 {
			return nil, &LoadError{Code: ErrCodeShape, Message: "experiments is empty", Pos: exps.Pos()}
		}
		return sources, nil
	}

	if instructions := v.LookupPath(cue.ParsePath("instructions")); instructions.Exists() {
		return []circuitSource{{name: headerName(v, fallback), list: instructions}}, nil
	}

	// A bare instruction record.
	return []circuitSource{{name: fallback, list: ctx.NewList(v)}}, nil
}

// headerName reads header.name, falling back when absent.
func headerName(v cue.Value, fallback string) string {
	name, err := v.LookupPath(cue.ParsePath("header.name")).String()
	if err != nil || name == "" {
		return fallback
	}
	return name
}

func defaultCircuitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// compileSource compiles one circuit and logs every instruction outcome.
func compileSource(src circuitSource, mode LoadMode, logger *slog.Logger, traceID string) (Circuit, []error) {
	ops, compileErrs := compiler.CompileCircuit(src.list, mode.compilerMode())
	circuit := Circuit{Name: src.name, Ops: ops}

	failed := make(map[int]bool, len(compileErrs))
	errs := make([]error, 0, len(compileErrs))
	for _, err := range compileErrs {
		ie, ok := compiler.AsInstructionError(err)
		if ok {
			failed[ie.Index] = true
			logger.Warn("instruction rejected",
				"circuit", src.name,
				"index", ie.Index,
				"name", ie.Name,
				"code", compiler.Code(err),
				"trace_id", traceID)
		} else {
			logger.Warn("circuit rejected", "circuit", src.name, "error", err, "trace_id", traceID)
		}
		errs = append(errs, &CircuitError{Circuit: src.name, Err: err})
	}

	// Ops keep source order with failures removed, so walk the source
	// positions and skip the failed ones.
	idx := 0
	for _, op := range ops {
		for failed[idx] {
			idx++
		}
		circuit.Indices = append(circuit.Indices, idx)
		logger.Debug("instruction compiled",
			"circuit", src.name,
			"index", idx,
			"name", op.Name(),
			"kind", op.Kind(),
			"trace_id", traceID)
		idx++
	}

	circuit.Instructions = len(ops) + len(failed)
	if n, err := src.list.Len().Int64(); err == nil {
		circuit.Instructions = int(n)
	}
	return circuit, errs
}

// Failure describes one rejected instruction for CLI output.
type Failure struct {
	Circuit string `json:"circuit,omitempty"`
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// describeFailure flattens an error from LoadCircuit into a Failure.
func describeFailure(err error) Failure {
	f := Failure{Index: -1, Code: compiler.Code(err), Message: err.Error()}
	if f.Code == "" {
		f.Code = ErrCodeGeneric
	}

	var ce *CircuitError
	if errors.As(err, &ce) {
		f.Circuit = ce.Circuit
	}
	if ie, ok := compiler.AsInstructionError(err); ok {
		f.Index = ie.Index
		f.Name = ie.Name
	}

	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		f.Field = compileErr.Field
		f.Message = compileErr.Message
		f.Line = lineOf(compileErr.Pos)
	}
	return f
}

// lineOf extracts the line number from a CUE position.
func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// asLoadError reports whether a load failed before any instruction compiled.
func asLoadError(result *LoadResult, errs []error) (*LoadError, bool) {
	if result != nil || len(errs) == 0 {
		return nil, false
	}
	var loadErr *LoadError
	if errors.As(errs[0], &loadErr) {
		return loadErr, true
	}
	return &LoadError{Code: ErrCodeGeneric, Message: errs[0].Error()}, true
}
