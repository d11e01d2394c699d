package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" validate:"required"`

	// TraceID is an optional fixed trace ID.
	// If empty, testutil.DefaultTraceID is used.
	TraceID string `yaml:"trace_id,omitempty"`

	// Strict runs compiler.Validate with dimension checks on every op that
	// compiles. A violation fails the step with the first error code.
	Strict bool `yaml:"strict,omitempty"`

	// Steps are compiled in order, each on its own.
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`

	// Assertions run after every step has been compiled.
	Assertions []Assertion `yaml:"assertions,omitempty" validate:"dive"`
}

// Step is one instruction record and what compiling it must produce.
type Step struct {
	// Instruction is the raw record, exactly as it would appear in a circuit.
	Instruction map[string]any `yaml:"instruction" validate:"required"`

	// Expect is optional. If nil, the step is compiled but not checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the outcome of a step.
// Error and the op fields are mutually exclusive.
type Expect struct {
	// Error is the code the step must fail with (e.g. "E204").
	Error string `yaml:"error,omitempty" validate:"omitempty,errcode"`

	// Kind, Name, Qubits and Labels are compared only when set.
	Kind   string   `yaml:"kind,omitempty" validate:"omitempty,opkind"`
	Name   string   `yaml:"name,omitempty"`
	Qubits []uint64 `yaml:"qubits,omitempty"`
	Labels []string `yaml:"labels,omitempty"`
}

// Assertion validates the compiled steps as a group.
type Assertion struct {
	Type string `yaml:"type" validate:"required,oneof=same_key distinct_keys kind_count"`

	// Steps lists step indexes (used by same_key and distinct_keys).
	Steps []int `yaml:"steps,omitempty" validate:"omitempty,min=2,dive,gte=0"`

	// Kind and Count are used by kind_count.
	Kind  string `yaml:"kind,omitempty" validate:"omitempty,opkind"`
	Count int    `yaml:"count,omitempty" validate:"gte=0"`
}

// Assertion type constants.
const (
	AssertSameKey      = "same_key"
	AssertDistinctKeys = "distinct_keys"
	AssertKindCount    = "kind_count"
)

var (
	errCodePattern = regexp.MustCompile(`^E[0-9]{3}$`)

	opKinds = map[string]bool{
		"gate": true, "measure": true, "reset": true, "snapshot": true,
		"mat": true, "dmat": true, "kraus": true, "probs": true,
		"obs_pauli": true, "obs_mat": true, "obs_dmat": true, "obs_vec": true,
	}
)

// scenarioValidate checks struct tags on decoded scenarios.
var scenarioValidate *validator.Validate

func init() {
	scenarioValidate = validator.New()

	_ = scenarioValidate.RegisterValidation("errcode", func(fl validator.FieldLevel) bool {
		return errCodePattern.MatchString(fl.Field().String())
	})
	_ = scenarioValidate.RegisterValidation("opkind", func(fl validator.FieldLevel) bool {
		return opKinds[fl.Field().String()]
	})
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks struct tags first, then the rules tags cannot express.
func validateScenario(s *Scenario) error {
	if err := scenarioValidate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return err
	}

	for i, step := range s.Steps {
		if len(step.Instruction) == 0 {
			return fmt.Errorf("steps[%d]: instruction must be non-empty", i)
		}
		if e := step.Expect; e != nil && e.Error != "" {
			if e.Kind != "" || e.Name != "" || len(e.Qubits) > 0 || len(e.Labels) > 0 {
				return fmt.Errorf("steps[%d].expect: error cannot be combined with op fields", i)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, steps int) error {
	switch a.Type {
	case AssertSameKey, AssertDistinctKeys:
		if len(a.Steps) < 2 {
			return fmt.Errorf("assertions[%d]: %s needs at least two steps", index, a.Type)
		}
		for _, s := range a.Steps {
			if s >= steps {
				return fmt.Errorf("assertions[%d]: step %d out of range (scenario has %d steps)", index, s, steps)
			}
		}
	case AssertKindCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for kind_count", index)
		}
	}
	return nil
}
