package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.New().String()
	slog.Debug("starting scan", "run", runID)

	if len(commandArgv) > 0 && len(args) > 0 {
		return &warnerr.ConfigError{Msg: "--command is exclusive with positional logfile arguments"}
	}

	fp := fingerprint.NewRegistry()
	defer fp.Reset()

	reg, err := buildRegistry(fp)
	if err != nil {
		return exitableError(err)
	}

	var inputErrs []error
	if len(commandArgv) > 0 {
		output, err := runSubprocess(ctx, commandArgv)
		if err != nil {
			return exitableError(err)
		}
		slog.Debug("subprocess captured", "argv", commandLabel(commandArgv))
		reg.Check(output)
	} else {
		var files []string
		files, inputErrs = resolveInputs(args)
		for _, e := range inputErrs {
			slog.Warn(e.Error())
		}

		bar := newInputProgress(len(files))
		for _, path := range files {
			if err := reg.CheckLogfile(path); err != nil {
				slog.Warn(err.Error())
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}

	code := reg.ReturnCheckLimits()

	if outputPath != "" {
		if err := writeSummary(reg, outputPath); err != nil {
			return exitableError(err)
		}
	}

	if cqPath != "" {
		if err := reg.WriteCodeQualityReport(cqPath, ""); err != nil {
			return exitableError(err)
		}
	}

	if code == -1 {
		os.Exit(255)
	}

	// Each missing positional logfile contributes individually to the
	// aggregate exit code; others still process above.
	code += len(inputErrs)

	if code == 0 {
		return nil
	}
	if code > 255 {
		code = 255
	}
	os.Exit(code)
	return nil
}

// exitableError wraps a driver-time failure (bad config, unreadable
// subprocess, unwritable report) for Cobra to print; the non-zero exit
// itself happens through main's generic error path (exit 1).
func exitableError(err error) error {
	return fmt.Errorf("warngate: %w", err)
}
