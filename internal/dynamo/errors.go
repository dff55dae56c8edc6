package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrUnstable indicates the state diverged to NaN or Inf.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrStepTooSmall indicates adaptive timestep underflow.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the integrator did not reach the end time within its step budget.
	ErrMaxSteps = errors.New("dynamo: step limit exceeded before end time")

	// ErrInvalidStep indicates a non-positive step or an inverted time window.
	ErrInvalidStep = errors.New("dynamo: invalid step or time window")

	// ErrDimensionMismatch indicates mismatched state and system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidParameter indicates a rejected model parameter.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")
)

// IntegrationError wraps a numerical failure with the point where it happened.
type IntegrationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%v (step %d, t=%.6g)", e.Wrapped, e.Step, e.Time)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}

// InvalidParameterError reports a single rejected input field.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("dynamo: invalid parameter %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}
