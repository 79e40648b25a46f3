package cmd

import (
	"fmt"
	"os"

	"github.com/warngate/warngate/pkg/registry"
	"github.com/warngate/warngate/pkg/warnerr"
)

// writeSummary appends each active checker's mandated summary sentence(s)
// (the same text ReturnCheckLimits logs via slog) to path, matching the
// -o/--output flag's "append" semantics. Must be called after
// reg.ReturnCheckLimits() so every checker's summary lines are populated.
func writeSummary(reg *registry.Registry, path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &warnerr.ReportError{Path: path, Err: err}
	}
	defer f.Close()

	for _, name := range reg.Names() {
		c := reg.Get(name)
		for _, line := range c.SummaryLines() {
			fmt.Fprintf(f, "%s\n", line)
		}
	}
	return nil
}
