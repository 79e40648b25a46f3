package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/warngate/warngate/pkg/warnerr"
)

// resolveInputs expands each positional argument as a glob pattern (no
// shell involved). A pattern containing no glob metacharacters that
// matches nothing is a missing file and contributes an *warnerr.InputError;
// a pattern that does use metacharacters and matches nothing resolves to
// zero files silently, matching filepath.Glob's own semantics.
func resolveInputs(patterns []string) ([]string, []error) {
	var files []string
	var errs []error

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			errs = append(errs, &warnerr.InputError{Path: pattern, Err: err})
			continue
		}
		if len(matches) == 0 {
			if !strings.ContainsAny(pattern, "*?[") {
				errs = append(errs, &warnerr.InputError{Path: pattern, Err: os.ErrNotExist})
			}
			continue
		}
		files = append(files, matches...)
	}

	return files, errs
}

// newInputProgress returns a progress bar for scanning n logfiles, or nil
// when progress reporting doesn't apply (single file, or not verbose).
func newInputProgress(n int) *progressbar.ProgressBar {
	if n <= 1 || !verbose {
		return nil
	}
	slog.Debug("scanning logfiles", "count", n)
	return progressbar.Default(int64(n))
}
