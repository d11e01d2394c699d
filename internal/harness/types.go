package harness

import "github.com/roach88/opload/internal/ir"

// StepOutcome records what compiling one step produced.
// Exactly one of Op and Code is set.
type StepOutcome struct {
	Index   int
	Name    string // op name, or the record's name field when compilation failed
	Op      ir.Op
	Key     string // cache key of Op
	Code    string // error code when compilation failed
	Message string // error message when compilation failed
}

// OK reports whether the step compiled.
func (o StepOutcome) OK() bool {
	return o.Op != nil
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// TraceID identifies the run in logs and snapshots.
	TraceID string `json:"trace_id"`

	// Steps holds one outcome per scenario step, in order.
	Steps []StepOutcome `json:"-"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(traceID string) *Result {
	return &Result{
		Pass:    true,
		TraceID: traceID,
		Steps:   []StepOutcome{},
		Errors:  []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
