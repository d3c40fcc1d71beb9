package processing

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/systemstart/collection-check/pkg/api"
)

// WritePlan lists the resolved pipeline without running anything.
func WritePlan(w io.Writer, p *api.Pipeline) error {
	source := p.FilePath
	if source == "" {
		source = "built-in"
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "config:\t%s\n", source)
	fmt.Fprintf(tw, "marker:\t%s\n", p.Marker)
	fmt.Fprintf(tw, "cleanup:\t%s\n\n", strings.Join(p.Cleanup.Command, " "))

	fmt.Fprintln(tw, "#\tSTEP\tCATEGORY\tCOMMAND\tREQUIRES")
	for i, s := range p.Steps {
		requires := "-"
		if s.Optional() {
			requires = s.Tool
		}
		command := strings.Join(s.Command, " ")
		if len(s.Files.Include) > 0 {
			command += " [files: " + strings.Join(s.Files.Include, ", ") + "]"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, s.Name, s.Category, command, requires)
	}
	return tw.Flush()
}
