// Package cmd implements the warngate CLI commands using Cobra.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// argError wraps a flag-parsing rejection so Execute's caller can map it to
// exit code 2, distinct from the generic I/O/config failure code 1.
type argError struct{ err error }

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

// IsArgError reports whether err came from Cobra/pflag argument parsing
// rather than from running the scan itself.
func IsArgError(err error) bool {
	_, ok := err.(*argError)
	return ok
}

var (
	cfgFile    string
	verbose    bool
	outputPath string
	cqPath     string
)

var rootCmd = &cobra.Command{
	Use:   "warngate",
	Short: "Scan build and test logs for warnings and fail CI on threshold",
	Long: `warngate scans CI build, documentation, and static-analysis logs for
diagnostics, tallies them per checker, and fails the build when the count
falls outside configured limits. It can also emit a GitLab Code-Quality
report for the findings it collects.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runScan,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: .warngate.yml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every matched diagnostic")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "append human-readable summary to this file")
	rootCmd.PersistentFlags().StringVar(&cqPath, "code-quality", "", "write JSON Code-Quality report to this path")

	registerCheckerFlags(rootCmd)
	registerSubprocessFlags(rootCmd)

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &argError{err: err}
	})
}

func setupLogging() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}
