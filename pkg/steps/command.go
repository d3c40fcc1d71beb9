package steps

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
	"github.com/systemstart/collection-check/pkg/api"
)

// ErrNoCommand is returned when a step has nothing to run.
var ErrNoCommand = errors.New("step has no command")

type commandStep struct {
	name string
	cfg  api.StepConfig
}

// NewCommandStep creates a step that runs cfg.Command, once per matched file
// when cfg.Files selects any.
func NewCommandStep(name string, cfg api.StepConfig) Step {
	return &commandStep{name: name, cfg: cfg}
}

func (s *commandStep) Name() string { return s.name }

func (s *commandStep) Run(ctx StepContext) (*StepResult, error) {
	if len(s.cfg.Command) == 0 {
		return nil, errors.Wrap(ErrNoCommand, s.name)
	}
	if ctx.Executor == nil {
		return nil, errors.Errorf("step %q: no executor", s.name)
	}

	workDir := filepath.Join(ctx.Root, s.cfg.Dir)
	data := TemplateData{Root: ctx.Root, Step: s.name}
	result := &StepResult{}

	if len(s.cfg.Files.Include) == 0 {
		return result, s.runOnce(ctx, workDir, data, result)
	}

	st, err := os.Stat(workDir)
	if err != nil {
		return nil, errors.Wrap(err, "checking step directory")
	}
	if !st.IsDir() {
		return nil, errors.Errorf("step directory %s is not a directory", workDir)
	}

	files, err := filterFiles(os.DirFS(workDir), s.cfg.Files.Include, s.cfg.Files.Exclude)
	if err != nil {
		return nil, errors.Wrap(err, "filtering files")
	}
	if len(files) == 0 {
		slog.Warn("no files matched, nothing to check", "step", s.name, "include", s.cfg.Files.Include)
		return result, nil
	}

	slog.Info("step checking files", "step", s.name, "count", len(files))
	result.Files = files

	for _, file := range files {
		data.File = file
		if err := s.runOnce(ctx, workDir, data, result); err != nil {
			return result, errors.Wrap(err, file)
		}
	}

	return result, nil
}

func (s *commandStep) runOnce(ctx StepContext, workDir string, data TemplateData, result *StepResult) error {
	args, err := renderArgs(s.name, s.cfg.Command[1:], data)
	if err != nil {
		return errors.Wrap(err, "rendering command")
	}
	if data.File != "" && !referencesFile(s.cfg.Command[1:]) {
		args = append(args, data.File)
	}

	cmd := Command{
		Program: s.cfg.Command[0],
		Args:    args,
		Dir:     workDir,
		Env:     envPairs(s.cfg.Env),
	}
	result.Commands = append(result.Commands, cmd.String())

	slog.Debug("running command", "step", s.name, "command", cmd.String(), "dir", workDir)

	return ctx.Executor.Run(cmd)
}

func envPairs(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	slices.Sort(pairs)
	return pairs
}
