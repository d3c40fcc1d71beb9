package api

const (
	DefaultMarker = "galaxy.yml"

	StepLint                  = "lint"
	StepCheckDocs             = "check-docs"
	StepSanityTest            = "sanity-test"
	StepUnitTest              = "unit-test"
	StepIntegrationTestSyntax = "integration-test-syntax"
	StepExampleSyntax         = "example-syntax"
	StepClean                 = "clean"

	ToolAnsibleTest = "ansible-test"
	ToolPytest      = "pytest"
)

// StepOrder is the fixed execution order. Upstream-compatible checks come
// first and syntax checks last; downstream consumers depend on it.
var StepOrder = []string{
	StepLint,
	StepCheckDocs,
	StepSanityTest,
	StepUnitTest,
	StepIntegrationTestSyntax,
	StepExampleSyntax,
}

// Config is the on-disk .collection-check.{yaml,toml} format. Every field is
// an override on top of the built-in pipeline.
type Config struct {
	Marker  string                `yaml:"marker" toml:"marker"`
	Cleanup *StepConfig           `yaml:"cleanup,omitempty" toml:"cleanup,omitempty"`
	Steps   map[string]StepConfig `yaml:"steps" toml:"steps"`

	// Set by the loader, not from the file.
	FilePath string `yaml:"-" toml:"-"`
}

// FileFilter defines include/exclude glob patterns.
type FileFilter struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// StepConfig defines a single validation step or the cleanup action.
type StepConfig struct {
	Name     string            `yaml:"-" toml:"-"`
	Category string            `yaml:"category" toml:"category"`
	Command  []string          `yaml:"command" toml:"command"`
	Dir      string            `yaml:"dir" toml:"dir"`
	Env      map[string]string `yaml:"env" toml:"env"`
	Files    FileFilter        `yaml:"files" toml:"files"`
	Tool     string            `yaml:"tool" toml:"tool"` // optional step when set
	Success  string            `yaml:"success" toml:"success"`
	Failure  string            `yaml:"failure" toml:"failure"`
}

// Optional reports whether the step is skipped when its tool is absent.
func (s StepConfig) Optional() bool { return s.Tool != "" }

// Pipeline is a fully resolved run plan.
type Pipeline struct {
	Marker  string
	Cleanup StepConfig
	Steps   []StepConfig

	// Source config file, empty for the built-in pipeline.
	FilePath string
}
