package processing

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Status is the result of one step.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome is the per-step result of a run.
type Outcome struct {
	Step     string
	Category string
	Status   Status
	Tool     string // set for skipped steps
	ExitCode int
	Duration time.Duration
}

// Report aggregates the outcomes of one run in execution order.
type Report struct {
	Outcomes []Outcome
	Context  *RunContext
	Duration time.Duration
}

// Failed returns the outcome that stopped the run, if any.
func (r *Report) Failed() (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			return o, true
		}
	}
	return Outcome{}, false
}

// Count returns how many outcomes have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

const bannerWidth = 50

func writeBanner(w io.Writer, title string) {
	line := strings.Repeat("=", bannerWidth)
	_, _ = fmt.Fprintf(w, "%s\n %s\n%s\n", line, title, line)
}

// WriteSummary writes the success banner and the category checklist.
func (r *Report) WriteSummary(w io.Writer) error {
	var b strings.Builder

	writeBanner(&b, "All validation checks passed")
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusPassed:
			fmt.Fprintf(&b, " [PASS] %s\n", o.Category)
		case StatusSkipped:
			fmt.Fprintf(&b, " [SKIP] %s (%s not found)\n", o.Category, o.Tool)
		case StatusFailed:
			fmt.Fprintf(&b, " [FAIL] %s\n", o.Category)
		}
	}
	fmt.Fprintf(&b, "\n %d passed, %d skipped in %s\n",
		r.Count(StatusPassed), r.Count(StatusSkipped), r.Duration.Round(time.Millisecond))

	if missing := r.Context.Missing(); len(missing) > 0 {
		fmt.Fprintf(&b, " install %s to run the skipped checks\n", strings.Join(missing, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
