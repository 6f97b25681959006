package model

import "fmt"

// InsufficientDataError means the series is shorter than the model's
// minimum sample count.
type InsufficientDataError struct {
	Model string
	Need  int
	Have  int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("%s requires at least %d data points, have %d", e.Model, e.Need, e.Have)
}

// BackendUnavailableError means an optional backend (like a trained model
// artifact) could not be loaded. Absence of the artifact file itself is
// not an error - this covers artifacts that exist but can't be used.
type BackendUnavailableError struct {
	Model  string
	Reason string
}

func (e BackendUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %s", e.Model, e.Reason)
}

// PredictionError wraps a runtime failure inside a model's fit or
// forecast step.
type PredictionError struct {
	Model string
	Err   error
}

func (e PredictionError) Error() string {
	return fmt.Sprintf("%s prediction failed: %v", e.Model, e.Err)
}

func (e PredictionError) Unwrap() error {
	return e.Err
}
