package model

import "fmt"

// InferenceError is returned when the classifier cannot be loaded, fails to
// run, or produces output of the wrong shape.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
