package steps

import (
	"github.com/pkg/errors"
	"github.com/systemstart/collection-check/pkg/api"
)

// NewStep creates a Step implementation from a resolved StepConfig.
func NewStep(cfg api.StepConfig) (Step, error) {
	if cfg.Name == "" {
		return nil, errors.New("step name is required")
	}
	if len(cfg.Command) == 0 {
		return nil, errors.Wrap(ErrNoCommand, cfg.Name)
	}
	return NewCommandStep(cfg.Name, cfg), nil
}
