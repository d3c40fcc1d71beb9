package api

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Marker != "" {
		if err := validateRelativePath(c.Marker); err != nil {
			return fmt.Errorf("marker: %w", err)
		}
	}

	if c.Cleanup != nil {
		if c.Cleanup.Tool != "" {
			return fmt.Errorf("cleanup: tool is not supported")
		}
		if err := validateStepConfig(*c.Cleanup); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
	}

	names := make([]string, 0, len(c.Steps))
	for name := range c.Steps {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if !slices.Contains(StepOrder, name) {
			return fmt.Errorf("step %q: unknown step (valid: %s)", name, strings.Join(StepOrder, ", "))
		}
		if err := validateStepConfig(c.Steps[name]); err != nil {
			return fmt.Errorf("step %q: %w", name, err)
		}
	}

	return nil
}

func validateStepConfig(step StepConfig) error {
	if len(step.Command) > 0 && strings.TrimSpace(step.Command[0]) == "" {
		return fmt.Errorf("command: program is empty")
	}
	if step.Dir != "" {
		if err := validateRelativePath(step.Dir); err != nil {
			return fmt.Errorf("dir: %w", err)
		}
	}
	for _, pattern := range slices.Concat(step.Files.Include, step.Files.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("files: invalid glob pattern %q", pattern)
		}
	}
	if len(step.Files.Exclude) > 0 && len(step.Files.Include) == 0 {
		return fmt.Errorf("files.exclude requires files.include")
	}
	if strings.ContainsAny(step.Tool, `/\`) {
		return fmt.Errorf("tool %q must be a bare program name", step.Tool)
	}
	return nil
}

func validateRelativePath(p string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("%q must be relative to the collection root", p)
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%q escapes the collection root", p)
	}
	return nil
}
