package steps

// StepContext provides the runtime context for a step.
type StepContext struct {
	Root     string // collection root, commands run relative to it
	Executor Executor
}

// StepResult holds the output of a step.
type StepResult struct {
	Commands []string // rendered command lines, in execution order
	Files    []string // files the step fanned out over, relative to its dir
}

// Step is the interface all pipeline steps implement.
type Step interface {
	Name() string
	Run(ctx StepContext) (*StepResult, error)
}
