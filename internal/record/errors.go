package record

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// FieldError reports a field that is present but has the wrong shape.
type FieldError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *FieldError) Error() string {
	field := e.Field
	if field == "" {
		field = "record"
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			field, e.Message)
	}
	return fmt.Sprintf("%s: %s", field, e.Message)
}

func typeError(v cue.Value, path, want string) *FieldError {
	return &FieldError{
		Field:   path,
		Message: fmt.Sprintf("must be %s, got %v", want, v.IncompleteKind()),
		Pos:     v.Pos(),
	}
}

// fromCUEError extracts position info from CUE errors.
func fromCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors; report the first
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &FieldError{Field: field, Message: err.Error()}
	}

	first := errs[0]
	fe := &FieldError{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		fe.Pos = positions[0]
	}
	return fe
}
