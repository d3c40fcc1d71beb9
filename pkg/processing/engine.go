package processing

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/systemstart/collection-check/pkg/api"
	"github.com/systemstart/collection-check/pkg/steps"
)

// Options configures a run.
type Options struct {
	Root     string         // collection root, defaults to the working directory
	Executor steps.Executor // defaults to steps.NewExecExecutor()
	LookPath LookPathFunc   // defaults to exec.LookPath
	Out      io.Writer      // category banners and summary, defaults to io.Discard
}

// Run executes the pipeline: marker check, tool probe, cleanup, the steps in
// order, cleanup again and the summary. It stops at the first failing step and
// returns a *StepFailure; a wrong invocation directory yields a
// *ConfigurationError before anything runs.
func Run(pipeline *api.Pipeline, opts Options) (*Report, error) {
	start := time.Now()
	opts = withDefaults(opts)

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, &ConfigurationError{Msg: "resolving collection root", Err: err}
	}

	if err := CheckMarker(root, pipeline.Marker); err != nil {
		return nil, err
	}

	rc := Probe(pipeline.Steps, opts.LookPath)
	sctx := steps.StepContext{Root: root, Executor: opts.Executor}

	runCleanup(pipeline.Cleanup, sctx)

	report := &Report{Context: rc}
	for _, stepCfg := range pipeline.Steps {
		outcome, err := runStep(stepCfg, sctx, rc, opts.Out)
		report.Outcomes = append(report.Outcomes, outcome)
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	runCleanup(pipeline.Cleanup, sctx)

	report.Duration = time.Since(start)
	if err := report.WriteSummary(opts.Out); err != nil {
		slog.Warn("failed to write summary", "error", err)
	}

	return report, nil
}

func withDefaults(opts Options) Options {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Executor == nil {
		opts.Executor = steps.NewExecExecutor()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return opts
}

// CheckMarker verifies that marker exists as a regular file under root.
func CheckMarker(root, marker string) error {
	p := filepath.Join(root, marker)
	st, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return &ConfigurationError{
			Msg: fmt.Sprintf("%s not found in %s, run from the collection root", marker, root),
		}
	}
	if err != nil {
		return &ConfigurationError{Msg: "checking marker file", Err: err}
	}
	if !st.Mode().IsRegular() {
		return &ConfigurationError{Msg: fmt.Sprintf("%s is not a regular file", p)}
	}
	return nil
}

func runStep(stepCfg api.StepConfig, sctx steps.StepContext, rc *RunContext, out io.Writer) (Outcome, error) {
	outcome := Outcome{Step: stepCfg.Name, Category: stepCfg.Category}

	_, _ = fmt.Fprintf(out, "==> %s\n", stepCfg.Category)

	if rc.Skips(stepCfg) {
		outcome.Status = StatusSkipped
		outcome.Tool = stepCfg.Tool
		slog.Warn("skipping step", "step", stepCfg.Name, "reason", stepCfg.Tool+" not found")
		_, _ = fmt.Fprintf(out, "--> skipped: %s not found\n", stepCfg.Tool)
		return outcome, nil
	}

	step, err := steps.NewStep(stepCfg)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.ExitCode = steps.ExitFailure
		return outcome, newStepFailure(stepCfg.Name, stepCfg.Category, err)
	}

	slog.Info("running step", "step", step.Name(), "category", stepCfg.Category)
	start := time.Now()
	_, err = step.Run(sctx)
	outcome.Duration = time.Since(start)

	if err != nil {
		failure := newStepFailure(stepCfg.Name, stepCfg.Category, err)
		outcome.Status = StatusFailed
		outcome.ExitCode = failure.ExitCode
		slog.Error(stepCfg.Failure, "step", stepCfg.Name, "exitCode", failure.ExitCode, "error", err)
		_, _ = fmt.Fprintf(out, "--> FAILED: %s\n", stepCfg.Failure)
		return outcome, failure
	}

	outcome.Status = StatusPassed
	slog.Info(stepCfg.Success, "step", stepCfg.Name, "duration", outcome.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(out, "--> %s\n", stepCfg.Success)
	return outcome, nil
}

func runCleanup(cleanup api.StepConfig, sctx steps.StepContext) {
	if len(cleanup.Command) == 0 {
		return
	}
	step, err := steps.NewStep(cleanup)
	if err != nil {
		slog.Warn("cleanup skipped", "error", err)
		return
	}
	slog.Debug("running cleanup", "step", step.Name())
	if _, err := step.Run(sctx); err != nil {
		slog.Warn("cleanup failed, continuing", "step", step.Name(), "error", err)
	}
}
