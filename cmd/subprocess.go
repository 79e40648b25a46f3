package cmd

import (
	"context"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warngate/warngate/pkg/warnerr"
)

var (
	commandArgv  []string
	ignoreRetval bool
)

func registerSubprocessFlags(c *cobra.Command) {
	c.Flags().StringArrayVar(&commandArgv, "command", nil, "run a subprocess and scan its output instead of a logfile")
	c.Flags().BoolVar(&ignoreRetval, "ignore-retval", false, "ignore the subprocess's non-zero exit code")
}

// runSubprocess executes argv and returns its captured output. A literal
// ">&2" token anywhere in argv means stderr should be merged into the captured
// stream (cmd.CombinedOutput) rather than captured separately; it is
// consumed here and never passed to the child's actual argv.
func runSubprocess(ctx context.Context, argv []string) (string, error) {
	mergeStderr := false
	clean := make([]string, 0, len(argv))
	for _, a := range argv {
		if a == ">&2" {
			mergeStderr = true
			continue
		}
		clean = append(clean, a)
	}
	if len(clean) == 0 {
		return "", &warnerr.ConfigError{Key: "command", Msg: "--command requires at least one argument"}
	}

	c := exec.CommandContext(ctx, clean[0], clean[1:]...)

	var out []byte
	var err error
	if mergeStderr {
		out, err = c.CombinedOutput()
	} else {
		out, err = c.Output()
	}
	if err != nil && !ignoreRetval {
		return "", &warnerr.SubprocessError{Argv: argv, Err: err}
	}

	return string(out), nil
}

// commandLabel renders argv for logging, collapsing it to a single line.
func commandLabel(argv []string) string {
	return strings.Join(argv, " ")
}
