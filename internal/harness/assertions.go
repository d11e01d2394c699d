package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result.Steps, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(steps []StepOutcome, a Assertion) error {
	switch a.Type {
	case AssertSameKey:
		return assertSameKey(steps, a)
	case AssertDistinctKeys:
		return assertDistinctKeys(steps, a)
	case AssertKindCount:
		return assertKindCount(steps, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// compiledKeys returns the cache keys of the listed steps, failing if any
// step is out of range or did not compile.
func compiledKeys(steps []StepOutcome, a Assertion) ([]string, error) {
	keys := make([]string, len(a.Steps))
	for i, idx := range a.Steps {
		if idx < 0 || idx >= len(steps) {
			return nil, &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("step %d to exist", idx),
				Actual:   fmt.Sprintf("scenario has %d steps", len(steps)),
			}
		}
		if !steps[idx].OK() {
			return nil, &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("step %d to compile", idx),
				Actual:   steps[idx].Message,
			}
		}
		keys[i] = steps[idx].Key
	}
	return keys, nil
}

func assertSameKey(steps []StepOutcome, a Assertion) error {
	keys, err := compiledKeys(steps, a)
	if err != nil {
		return err
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[0] {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("steps %v to share one cache key", a.Steps),
				Actual:   fmt.Sprintf("step %d has %s, step %d has %s", a.Steps[0], keys[0], a.Steps[i], keys[i]),
			}
		}
	}
	return nil
}

func assertDistinctKeys(steps []StepOutcome, a Assertion) error {
	keys, err := compiledKeys(steps, a)
	if err != nil {
		return err
	}
	seen := make(map[string]int, len(keys))
	for i, key := range keys {
		if prev, ok := seen[key]; ok {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("steps %v to have distinct cache keys", a.Steps),
				Actual:   fmt.Sprintf("steps %d and %d share %s", a.Steps[prev], a.Steps[i], key),
			}
		}
		seen[key] = i
	}
	return nil
}

func assertKindCount(steps []StepOutcome, a Assertion) error {
	count := 0
	for _, s := range steps {
		if s.OK() && string(s.Op.Kind()) == a.Kind {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d op(s) of kind %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}
