package processing

import (
	"errors"
	"fmt"

	"github.com/systemstart/collection-check/pkg/steps"
)

// ConfigurationError means the run could not start, e.g. it was invoked
// outside the collection root. No step has run.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// StepFailure means a step ran and failed. The run stopped at that step.
type StepFailure struct {
	Step     string
	Category string
	ExitCode int
	Err      error
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step %q failed with exit code %d: %v", e.Step, e.ExitCode, e.Err)
}

func (e *StepFailure) Unwrap() error { return e.Err }

func newStepFailure(step, category string, err error) *StepFailure {
	return &StepFailure{
		Step:     step,
		Category: category,
		ExitCode: steps.ExitCode(err),
		Err:      err,
	}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
