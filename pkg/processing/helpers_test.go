package processing

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/systemstart/collection-check/pkg/api"
	"github.com/systemstart/collection-check/pkg/steps"
)

// newCollection creates a collection root containing the default marker.
func newCollection(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, api.DefaultMarker), []byte("namespace: example\nname: truenas\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

// lookPathWith reports only the given tools as present.
func lookPathWith(present ...string) LookPathFunc {
	return func(file string) (string, error) {
		if slices.Contains(present, file) {
			return "/usr/bin/" + file, nil
		}
		return "", fmt.Errorf("exec: %q: %w", file, exec.ErrNotFound)
	}
}

// fakeExecutor records command lines. Lines that are keys of fail exit with
// the mapped code.
type fakeExecutor struct {
	calls []string
	fail  map[string]int
}

func (f *fakeExecutor) Run(c steps.Command) error {
	line := c.String()
	f.calls = append(f.calls, line)
	if code, ok := f.fail[line]; ok {
		return &steps.CommandError{Command: line, ExitCode: code, Err: fmt.Errorf("exit status %d", code)}
	}
	return nil
}

func statuses(r *Report) map[string]Status {
	m := make(map[string]Status, len(r.Outcomes))
	for _, o := range r.Outcomes {
		m[o.Step] = o.Status
	}
	return m
}
