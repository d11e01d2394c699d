package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/opload/internal/compiler"
	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/testutil"
)

// Harness compiles scenario steps with a fixed trace ID.
type Harness struct {
	ctx     *cue.Context
	traceID string
	strict  bool
	logger  *slog.Logger
}

// Run executes a scenario with logging discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// Execution flow:
//  1. Compile each step's instruction on its own
//  2. In strict mode, validate dimensions of every compiled op
//  3. Check each step against its expect clause
//  4. Evaluate assertions over all outcomes
//
// A returned error means the scenario could not be run at all; expectation
// and assertion failures are reported in the Result.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}

	h := &Harness{
		ctx:     cuecontext.New(),
		traceID: testutil.NewFixedTraceID(scenario.TraceID).Generate(),
		strict:  scenario.Strict,
		logger:  logger,
	}

	result := NewResult(h.traceID)
	for i, step := range scenario.Steps {
		outcome := h.compileStep(i, step)
		result.Steps = append(result.Steps, outcome)

		if step.Expect != nil {
			for _, msg := range checkExpect(outcome, step.Expect) {
				result.AddError(fmt.Sprintf("step %d: %s", i, msg))
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"trace_id", h.traceID)
	return result, nil
}

func (h *Harness) compileStep(index int, step Step) StepOutcome {
	outcome := StepOutcome{Index: index}
	if name, ok := step.Instruction[ir.FieldName].(string); ok {
		outcome.Name = name
	}

	op, err := compiler.CompileOp(h.ctx.Encode(step.Instruction))
	if err == nil && h.strict {
		if verrs := compiler.Validate(op, compiler.WithDimensionChecks()); len(verrs) > 0 {
			op, err = nil, verrs[0]
		}
	}
	if err != nil {
		outcome.Code = codeOf(err)
		outcome.Message = err.Error()
		h.logger.Debug("step rejected",
			"index", index,
			"name", outcome.Name,
			"code", outcome.Code,
			"trace_id", h.traceID)
		return outcome
	}

	key, err := ir.CacheKey(op)
	if err != nil {
		outcome.Code = compiler.ErrFieldType
		outcome.Message = err.Error()
		return outcome
	}

	outcome.Op = op
	outcome.Name = op.Name()
	outcome.Key = key
	h.logger.Debug("step compiled",
		"index", index,
		"name", outcome.Name,
		"key", key,
		"trace_id", h.traceID)
	return outcome
}

// codeOf returns the code of a compile or validation error.
func codeOf(err error) string {
	if verr, ok := err.(compiler.ValidationError); ok {
		return verr.Code
	}
	return compiler.Code(err)
}

// checkExpect compares one outcome against its expect clause.
func checkExpect(o StepOutcome, e *Expect) []string {
	if e.Error != "" {
		if o.OK() {
			return []string{fmt.Sprintf("expected error %s, got %s", e.Error, o.Op.Kind())}
		}
		if o.Code != e.Error {
			return []string{fmt.Sprintf("expected error %s, got %s (%s)", e.Error, o.Code, o.Message)}
		}
		return nil
	}

	if !o.OK() {
		return []string{fmt.Sprintf("expected success, got %s", o.Message)}
	}

	var errs []string
	if e.Kind != "" && string(o.Op.Kind()) != e.Kind {
		errs = append(errs, fmt.Sprintf("kind: expected %s, got %s", e.Kind, o.Op.Kind()))
	}
	if e.Name != "" && o.Op.Name() != e.Name {
		errs = append(errs, fmt.Sprintf("name: expected %q, got %q", e.Name, o.Op.Name()))
	}
	if len(e.Qubits) > 0 && !slices.Equal(o.Op.ActsOn(), e.Qubits) {
		errs = append(errs, fmt.Sprintf("qubits: expected %v, got %v", e.Qubits, o.Op.ActsOn()))
	}
	if len(e.Labels) > 0 {
		if got := labelsOf(o.Op); !slices.Equal(got, e.Labels) {
			errs = append(errs, fmt.Sprintf("labels: expected %q, got %q", e.Labels, got))
		}
	}
	return errs
}

// labelsOf returns the string payload of ops that carry one.
func labelsOf(op ir.Op) []string {
	switch v := op.(type) {
	case *ir.ObsPauli:
		return v.Labels
	case *ir.Snapshot:
		return v.Labels
	default:
		return nil
	}
}
