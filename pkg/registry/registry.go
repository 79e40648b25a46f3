// Package registry owns the set of active checkers for a run, dispatches
// input to them in registration order, and serializes their collected
// Findings into a GitLab Code-Quality report.
package registry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"log/slog"

	"github.com/warngate/warngate/pkg/checker"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

// Registry holds the active checkers for one run and fans input out to all
// of them. Polyspace is mutually exclusive with every other checker; that
// constraint is enforced in Activate, not left to the caller.
type Registry struct {
	fp       *fingerprint.Registry
	logger   *slog.Logger
	order    []string
	checkers map[string]checker.Checker
}

// New constructs an empty Registry backed by fp for fingerprint assignment.
func New(fp *fingerprint.Registry) *Registry {
	return &Registry{
		fp:       fp,
		logger:   slog.Default(),
		checkers: make(map[string]checker.Checker),
	}
}

// Activate registers c under its own Name(), enforcing Polyspace's
// mutual-exclusion invariant: it cannot be combined with any other checker.
func (r *Registry) Activate(c checker.Checker) error {
	name := c.Name()
	if _, exists := r.checkers[name]; exists {
		return &warnerr.ConfigError{Key: name, Msg: fmt.Sprintf("checker %q already active", name)}
	}

	if name == "polyspace" && len(r.checkers) > 0 {
		return &warnerr.ConfigError{Msg: "polyspace cannot be combined with any other checker"}
	}
	if _, hasPolyspace := r.checkers["polyspace"]; hasPolyspace {
		return &warnerr.ConfigError{Msg: "polyspace cannot be combined with any other checker"}
	}

	r.checkers[name] = c
	r.order = append(r.order, name)
	return nil
}

// Active reports whether a checker of the given name is registered.
func (r *Registry) Active(name string) bool {
	_, ok := r.checkers[name]
	return ok
}

// Get returns the active checker registered under name, or nil.
func (r *Registry) Get(name string) checker.Checker {
	return r.checkers[name]
}

// Names returns the active checker names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Check dispatches content to every active checker whose Mode is BlobInput
// as the entire blob, and to every LineInput checker one line at a time.
func (r *Registry) Check(content string) {
	for _, name := range r.order {
		c := r.checkers[name]
		switch c.Mode() {
		case checker.BlobInput:
			c.Check(content)
		case checker.LineInput:
			scanner := bufio.NewScanner(strings.NewReader(content))
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				c.Check(scanner.Text())
			}
		}
	}
}

// CheckLogfile reads path and dispatches its content via Check.
func (r *Registry) CheckLogfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &warnerr.InputError{Path: path, Err: err}
	}
	r.Check(string(data))
	return nil
}

// ReturnCount sums ReturnCount across every active checker.
func (r *Registry) ReturnCount() int {
	total := 0
	for _, name := range r.order {
		total += r.checkers[name].ReturnCount()
	}
	return total
}

// ReturnCheckLimits evaluates every active checker's limits and returns the
// aggregate exit code: the sum of per-checker failures, except that a
// Robot suite-not-found (-1) short-circuits and is returned immediately, and
// saturates the sum at 255.
func (r *Registry) ReturnCheckLimits() int {
	total := 0
	for _, name := range r.order {
		code := r.checkers[name].ReturnCheckLimits()
		if code == -1 {
			return -1
		}
		total += code
	}
	if total > 255 {
		total = 255
	}
	return total
}

type codeQualityLocation struct {
	Path      string                 `json:"path"`
	Positions codeQualityPositionSet `json:"positions"`
}

type codeQualityPositionSet struct {
	Begin codeQualityPosition `json:"begin"`
}

type codeQualityPosition struct {
	Line int `json:"line"`
}

type codeQualityEntry struct {
	Description string              `json:"description"`
	CheckName   string              `json:"check_name"`
	Fingerprint string              `json:"fingerprint"`
	Severity    string              `json:"severity"`
	Location    codeQualityLocation `json:"location"`
}

// WriteCodeQualityReport collects findings from every active checker,
// rewrites absolute paths relative to baseDir, and writes a stably sorted
// JSON array to path.
func (r *Registry) WriteCodeQualityReport(path, baseDir string) error {
	var all []finding.Finding
	for _, name := range r.order {
		all = append(all, r.checkers[name].Findings()...)
	}

	entries := make([]codeQualityEntry, 0, len(all))
	for _, f := range all {
		rel := f.Path
		if baseDir != "" && filepath.IsAbs(rel) {
			r2, err := filepath.Rel(baseDir, rel)
			if err != nil {
				return &warnerr.ReportError{Path: rel, Err: err}
			}
			rel = r2
		}
		entries = append(entries, codeQualityEntry{
			Description: f.Description,
			CheckName:   f.CheckName,
			Fingerprint: f.Fingerprint,
			Severity:    string(f.Severity),
			Location: codeQualityLocation{
				Path: rel,
				Positions: codeQualityPositionSet{
					Begin: codeQualityPosition{Line: f.Line},
				},
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Location.Path != b.Location.Path {
			return a.Location.Path < b.Location.Path
		}
		if a.Location.Positions.Begin.Line != b.Location.Positions.Begin.Line {
			return a.Location.Positions.Begin.Line < b.Location.Positions.Begin.Line
		}
		return a.Fingerprint < b.Fingerprint
	})

	out, err := os.Create(path)
	if err != nil {
		return &warnerr.ReportError{Path: path, Err: err}
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return &warnerr.ReportError{Path: path, Err: err}
	}
	r.logger.Info(fmt.Sprintf("wrote code quality report with %d entries to %s", len(entries), path))
	return nil
}
