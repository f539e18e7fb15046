package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBody indicates a mutation naming a body the scene lacks.
	ErrUnknownBody = errors.New("scene: unknown body")

	// ErrDuplicateBody indicates two bodies sharing a name.
	ErrDuplicateBody = errors.New("scene: duplicate body name")

	// ErrUnknownOp indicates an unsupported mutation op.
	ErrUnknownOp = errors.New("scene: unknown op")

	// ErrEmptyScene indicates a scene without bodies.
	ErrEmptyScene = errors.New("scene: no bodies")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("scene: run canceled by context")
)

// StepError wraps a failure with the step and body it happened on.
// Step is -1 while the initial bodies are being built.
type StepError struct {
	Step    int
	Body    string
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("body %q: %v", e.Body, e.Wrapped)
	}
	return fmt.Sprintf("step %d, body %q: %v", e.Step, e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
