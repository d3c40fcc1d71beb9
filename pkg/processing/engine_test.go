package processing

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/systemstart/collection-check/pkg/api"
)

var allGreenCalls = []string{
	"make clean",
	"make lint",
	"make check-docs",
	"make sanity-test",
	"make unit-test",
	"make integration-test-syntax",
	"make example-syntax",
	"make clean",
}

func TestRun_AllStepsPass(t *testing.T) {
	root := newCollection(t)
	exec := &fakeExecutor{}
	var out bytes.Buffer

	report, err := Run(api.DefaultPipeline(), Options{
		Root:     root,
		Executor: exec,
		LookPath: lookPathWith(api.ToolAnsibleTest, api.ToolPytest),
		Out:      &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(allGreenCalls, exec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if report.Count(StatusPassed) != 6 {
		t.Errorf("expected 6 passed steps, got %d", report.Count(StatusPassed))
	}

	summary := out.String()
	if !strings.Contains(summary, "All validation checks passed") {
		t.Errorf("expected success banner, got:\n%s", summary)
	}
	for _, step := range api.DefaultPipeline().Steps {
		if !strings.Contains(summary, "[PASS] "+step.Category) {
			t.Errorf("expected %q to be listed as passed, got:\n%s", step.Category, summary)
		}
	}
}

func TestRun_MarkerMissing(t *testing.T) {
	exec := &fakeExecutor{}

	report, err := Run(api.DefaultPipeline(), Options{
		Root:     t.TempDir(),
		Executor: exec,
		LookPath: lookPathWith(api.ToolAnsibleTest, api.ToolPytest),
	})
	if err == nil {
		t.Fatal("expected error outside the collection root")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "galaxy.yml not found") {
		t.Errorf("expected descriptive message, got: %v", err)
	}
	if report != nil {
		t.Errorf("expected no report, got %+v", report)
	}
	if len(exec.calls) != 0 {
		t.Errorf("expected no commands, got %v", exec.calls)
	}
}

func TestRun_MarkerIsDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, api.DefaultMarker), 0o750); err != nil {
		t.Fatal(err)
	}
	exec := &fakeExecutor{}

	_, err := Run(api.DefaultPipeline(), Options{Root: root, Executor: exec})
	if !IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("expected no commands, got %v", exec.calls)
	}
}

func TestRun_DocCheckFails(t *testing.T) {
	root := newCollection(t)
	exec := &fakeExecutor{fail: map[string]int{"make check-docs": 2}}
	var out bytes.Buffer

	report, err := Run(api.DefaultPipeline(), Options{
		Root:     root,
		Executor: exec,
		LookPath: lookPathWith(api.ToolAnsibleTest, api.ToolPytest),
		Out:      &out,
	})
	if err == nil {
		t.Fatal("expected step failure")
	}

	var failure *StepFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *StepFailure, got %T: %v", err, err)
	}
	if failure.Step != api.StepCheckDocs || failure.ExitCode != 2 {
		t.Errorf("unexpected failure: %+v", failure)
	}
	if IsConfigurationError(err) {
		t.Error("step failure must not be a configuration error")
	}

	want := []string{"make clean", "make lint", "make check-docs"}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	failed, ok := report.Failed()
	if !ok || failed.Step != api.StepCheckDocs || failed.ExitCode != 2 {
		t.Errorf("unexpected failed outcome: %+v", failed)
	}
	if len(report.Outcomes) != 2 {
		t.Errorf("expected outcomes up to the failing step, got %d", len(report.Outcomes))
	}
	if !strings.Contains(out.String(), "FAILED: documentation check failed") {
		t.Errorf("expected failure message, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "All validation checks passed") {
		t.Errorf("summary must not be written after a failure, got:\n%s", out.String())
	}
}

func TestRun_EachRequiredStepHalts(t *testing.T) {
	for i, step := range api.DefaultPipeline().Steps {
		t.Run(step.Name, func(t *testing.T) {
			line := "make " + step.Name
			exec := &fakeExecutor{fail: map[string]int{line: 3}}

			_, err := Run(api.DefaultPipeline(), Options{
				Root:     newCollection(t),
				Executor: exec,
				LookPath: lookPathWith(api.ToolAnsibleTest, api.ToolPytest),
			})
			if err == nil {
				t.Fatal("expected failure")
			}

			// pre-run cleanup plus steps up to and including the failing one
			if diff := cmp.Diff(allGreenCalls[:i+2], exec.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_UnitToolMissing(t *testing.T) {
	root := newCollection(t)
	exec := &fakeExecutor{}
	var out bytes.Buffer

	report, err := Run(api.DefaultPipeline(), Options{
		Root:     root,
		Executor: exec,
		LookPath: lookPathWith(api.ToolAnsibleTest),
		Out:      &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, call := range exec.calls {
		if call == "make unit-test" {
			t.Fatal("unit-test must be skipped when pytest is absent")
		}
	}
	if len(exec.calls) != len(allGreenCalls)-1 {
		t.Errorf("expected remaining steps to run, got %v", exec.calls)
	}

	got := statuses(report)
	if got[api.StepUnitTest] != StatusSkipped {
		t.Errorf("expected unit-test skipped, got %q", got[api.StepUnitTest])
	}
	if got[api.StepSanityTest] != StatusPassed {
		t.Errorf("expected sanity-test passed, got %q", got[api.StepSanityTest])
	}
	if !report.Context.Absent(api.ToolPytest) {
		t.Error("expected pytest recorded absent")
	}

	summary := out.String()
	if !strings.Contains(summary, "skipped: pytest not found") {
		t.Errorf("expected skip notice, got:\n%s", summary)
	}
	if !strings.Contains(summary, "[SKIP] Unit tests (pytest not found)") {
		t.Errorf("expected skipped checklist entry, got:\n%s", summary)
	}
}

func TestRun_BothToolsMissing(t *testing.T) {
	exec := &fakeExecutor{}

	report, err := Run(api.DefaultPipeline(), Options{
		Root:     newCollection(t),
		Executor: exec,
		LookPath: lookPathWith(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"make clean",
		"make lint",
		"make check-docs",
		"make integration-test-syntax",
		"make example-syntax",
		"make clean",
	}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if report.Count(StatusSkipped) != 2 || report.Count(StatusPassed) != 4 {
		t.Errorf("unexpected counts: %+v", statuses(report))
	}
	if _, failed := report.Failed(); failed {
		t.Error("skipped steps must not count as failures")
	}
}

func TestRun_OptionalStepFailsWhenToolPresent(t *testing.T) {
	exec := &fakeExecutor{fail: map[string]int{"make sanity-test": 1}}

	_, err := Run(api.DefaultPipeline(), Options{
		Root:     newCollection(t),
		Executor: exec,
		LookPath: lookPathWith(api.ToolAnsibleTest, api.ToolPytest),
	})

	var failure *StepFailure
	if !errors.As(err, &failure) || failure.Step != api.StepSanityTest {
		t.Fatalf("expected sanity-test failure, got %v", err)
	}
	if exec.calls[len(exec.calls)-1] != "make sanity-test" {
		t.Errorf("expected run to stop at sanity-test, got %v", exec.calls)
	}
}

func TestRun_CleanupFailureIgnored(t *testing.T) {
	exec := &fakeExecutor{fail: map[string]int{"make clean": 2}}

	report, err := Run(api.DefaultPipeline(), Options{
		Root:     newCollection(t),
		Executor: exec,
		LookPath: lookPathWith(api.ToolAnsibleTest, api.ToolPytest),
	})
	if err != nil {
		t.Fatalf("cleanup failure must not fail the run: %v", err)
	}
	if diff := cmp.Diff(allGreenCalls, exec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if report.Count(StatusPassed) != 6 {
		t.Errorf("expected 6 passed steps, got %d", report.Count(StatusPassed))
	}
}

func TestRun_Idempotent(t *testing.T) {
	root := newCollection(t)
	opts := func(exec *fakeExecutor) Options {
		return Options{
			Root:     root,
			Executor: exec,
			LookPath: lookPathWith(api.ToolAnsibleTest),
		}
	}

	first, second := &fakeExecutor{}, &fakeExecutor{}
	r1, err1 := Run(api.DefaultPipeline(), opts(first))
	r2, err2 := Run(api.DefaultPipeline(), opts(second))

	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("outcome changed between runs: %v vs %v", err1, err2)
	}
	if diff := cmp.Diff(first.calls, second.calls); diff != "" {
		t.Errorf("calls changed between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(statuses(r1), statuses(r2)); diff != "" {
		t.Errorf("statuses changed between runs (-first +second):\n%s", diff)
	}
}

func TestRun_CustomPipeline(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "MANIFEST.json", "{}")
	writeFile(t, root, "examples/instance.yml", "- hosts: all\n")
	writeFile(t, root, "examples/exec.yml", "- hosts: all\n")

	cfg := &api.Config{
		Marker:  "MANIFEST.json",
		Cleanup: &api.StepConfig{Command: []string{"git", "clean", "-fdX"}},
		Steps: map[string]api.StepConfig{
			api.StepExampleSyntax: {
				Command: []string{"ansible-playbook", "--syntax-check", "{{ .File }}"},
				Files:   api.FileFilter{Include: []string{"examples/*.yml"}},
			},
		},
	}
	pipeline, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := &fakeExecutor{}
	if _, err := Run(pipeline, Options{Root: root, Executor: exec, LookPath: lookPathWith()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"git clean -fdX",
		"make lint",
		"make check-docs",
		"make integration-test-syntax",
		"ansible-playbook --syntax-check examples/exec.yml",
		"ansible-playbook --syntax-check examples/instance.yml",
		"git clean -fdX",
	}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FanOutStepMissingDir(t *testing.T) {
	cfg := &api.Config{Steps: map[string]api.StepConfig{
		api.StepExampleSyntax: {
			Dir:   "exampels",
			Files: api.FileFilter{Include: []string{"*.yml"}},
		},
	}}
	pipeline, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := &fakeExecutor{}
	report, err := Run(pipeline, Options{Root: newCollection(t), Executor: exec, LookPath: lookPathWith()})

	var failure *StepFailure
	if !errors.As(err, &failure) || failure.Step != api.StepExampleSyntax {
		t.Fatalf("expected example-syntax failure, got %v", err)
	}
	if got := statuses(report)[api.StepExampleSyntax]; got != StatusFailed {
		t.Errorf("expected example-syntax failed, got %q", got)
	}
	if exec.calls[len(exec.calls)-1] != "make integration-test-syntax" {
		t.Errorf("expected no final cleanup after the failure, got %v", exec.calls)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
