package steps

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// writeTestFile writes content to a file in dir, failing the test on error.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not in PATH")
	}
}

// recordingExecutor records commands instead of running them. Commands whose
// String() is a key of fail return that error.
type recordingExecutor struct {
	calls []Command
	fail  map[string]error
}

func (r *recordingExecutor) Run(c Command) error {
	r.calls = append(r.calls, c)
	if err, ok := r.fail[c.String()]; ok {
		return err
	}
	return nil
}

func (r *recordingExecutor) commandLines() []string {
	lines := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		lines = append(lines, c.String())
	}
	return lines
}
