package processing

import (
	"errors"
	"log/slog"
	"os/exec"
	"slices"

	"github.com/systemstart/collection-check/pkg/api"
)

// LookPathFunc resolves a program name on PATH, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// RunContext records which optional tools were found absent for one run.
type RunContext struct {
	missing map[string]bool
}

// Absent reports whether tool was probed and not found.
func (c *RunContext) Absent(tool string) bool {
	return c != nil && c.missing[tool]
}

// Missing returns the absent tools, sorted.
func (c *RunContext) Missing() []string {
	if c == nil {
		return nil
	}
	tools := make([]string, 0, len(c.missing))
	for tool := range c.missing {
		tools = append(tools, tool)
	}
	slices.Sort(tools)
	return tools
}

// Skips reports whether step must be skipped in this run.
func (c *RunContext) Skips(step api.StepConfig) bool {
	return step.Optional() && c.Absent(step.Tool)
}

// Probe looks up the tool of every optional step. Absent tools are recorded
// and warned about, never treated as errors.
func Probe(steps []api.StepConfig, lookPath LookPathFunc) *RunContext {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	rc := &RunContext{missing: make(map[string]bool)}
	probed := make(map[string]bool)

	for _, step := range steps {
		if !step.Optional() || probed[step.Tool] {
			continue
		}
		probed[step.Tool] = true

		path, err := lookPath(step.Tool)
		if errors.Is(err, exec.ErrDot) {
			slog.Debug("optional tool found via relative PATH entry", "tool", step.Tool, "path", path)
			continue
		}
		if err != nil {
			slog.Warn("optional tool not found, dependent steps will be skipped", "tool", step.Tool, "step", step.Name, "error", err)
			rc.missing[step.Tool] = true
			continue
		}
		slog.Debug("found optional tool", "tool", step.Tool, "path", path)
	}

	return rc
}
