package api

import "maps"

var defaultSteps = map[string]StepConfig{
	StepLint: {
		Category: "Upstream lint",
		Command:  []string{"make", "lint"},
		Success:  "upstream lint passed",
		Failure:  "upstream lint failed",
	},
	StepCheckDocs: {
		Category: "Upstream documentation",
		Command:  []string{"make", "check-docs"},
		Success:  "documentation check passed",
		Failure:  "documentation check failed",
	},
	StepSanityTest: {
		Category: "Sanity tests",
		Command:  []string{"make", "sanity-test"},
		Tool:     ToolAnsibleTest,
		Success:  "sanity tests passed",
		Failure:  "sanity tests failed",
	},
	StepUnitTest: {
		Category: "Unit tests",
		Command:  []string{"make", "unit-test"},
		Tool:     ToolPytest,
		Success:  "unit tests passed",
		Failure:  "unit tests failed",
	},
	StepIntegrationTestSyntax: {
		Category: "Integration test syntax",
		Command:  []string{"make", "integration-test-syntax"},
		Success:  "integration test syntax is valid",
		Failure:  "integration test syntax check failed",
	},
	StepExampleSyntax: {
		Category: "Example syntax",
		Command:  []string{"make", "example-syntax"},
		Success:  "example syntax is valid",
		Failure:  "example syntax check failed",
	},
}

var defaultCleanup = StepConfig{
	Category: "Cleanup",
	Command:  []string{"make", "clean"},
}

// DefaultPipeline returns the built-in pipeline used when no config file exists.
func DefaultPipeline() *Pipeline {
	p, _ := (&Config{}).Resolve()
	return p
}

// Resolve applies the overrides in c on top of the built-in pipeline.
// The step order is always StepOrder.
func (c *Config) Resolve() (*Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		Marker:   DefaultMarker,
		Cleanup:  defaultCleanup,
		Steps:    make([]StepConfig, 0, len(StepOrder)),
		FilePath: c.FilePath,
	}
	if c.Marker != "" {
		p.Marker = c.Marker
	}
	p.Cleanup.Name = StepClean
	if c.Cleanup != nil {
		p.Cleanup = mergeStep(p.Cleanup, *c.Cleanup)
	}

	for _, name := range StepOrder {
		step := defaultSteps[name]
		step.Name = name
		if override, ok := c.Steps[name]; ok {
			step = mergeStep(step, override)
		}
		p.Steps = append(p.Steps, step)
	}

	return p, nil
}

func mergeStep(base, override StepConfig) StepConfig {
	merged := base
	if override.Category != "" {
		merged.Category = override.Category
	}
	if len(override.Command) > 0 {
		merged.Command = override.Command
	}
	if override.Dir != "" {
		merged.Dir = override.Dir
	}
	if len(override.Env) > 0 {
		merged.Env = make(map[string]string, len(base.Env)+len(override.Env))
		maps.Copy(merged.Env, base.Env)
		maps.Copy(merged.Env, override.Env)
	}
	if len(override.Files.Include) > 0 {
		merged.Files.Include = override.Files.Include
	}
	if len(override.Files.Exclude) > 0 {
		merged.Files.Exclude = override.Files.Exclude
	}
	if override.Tool != "" {
		merged.Tool = override.Tool
	}
	if override.Success != "" {
		merged.Success = override.Success
	}
	if override.Failure != "" {
		merged.Failure = override.Failure
	}
	return merged
}
