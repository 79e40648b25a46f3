// Package checker implements the seven diagnostic-producer parsers (Sphinx,
// Doxygen, XmlRunner, Coverity, Polyspace, Robot, generic Regex) behind a
// single capability interface, plus the bookkeeping (count, limits, include/
// exclude filters, fingerprinted findings) they all share.
package checker

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"log/slog"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

// namesSuppressingErrorSuffix are the checkers whose "Returning error code
// N." suffix is omitted from the failure log line; aggregating checkers
// report per-classification detail elsewhere instead.
var namesSuppressingErrorSuffix = map[string]bool{
	"polyspace": true,
	"coverity":  true,
	"robot":     true,
}

// Checker is the capability set every diagnostic-producer parser implements.
type Checker interface {
	Name() string
	Mode() InputMode
	ParseConfig(cfg config.CheckerConfig) error
	Check(content string)
	ReturnCount() int
	ReturnCheckLimits() int
	Findings() []finding.Finding

	// SummaryLines returns the well-done/failure sentence(s) produced by the
	// most recent ReturnCheckLimits call, the same text logged via slog, for
	// the -o/--output human-readable summary file.
	SummaryLines() []string
}

// Base implements the bookkeeping shared by every concrete checker:
// count/min/max tracking, include/exclude pattern evaluation, fingerprinted
// finding collection, and limits-to-exit-code evaluation. Concrete checkers
// embed Base and implement Check themselves.
type Base struct {
	name string

	count          int
	minimum        int
	maximum        int // math.MaxInt when unbounded
	maximumDisplay int // raw configured value, -1 when unbounded, for messages

	excludePatterns []*regexp.Regexp
	includePatterns []*regexp.Regexp

	cqEnabled             bool
	cqDefaultPath         string
	cqDescriptionTemplate string

	logger *slog.Logger
	fp     *fingerprint.Registry

	findings    []finding.Finding
	lastSummary []string
}

// NewBase constructs a Base for the checker named name, with logging and
// fingerprinting wired through.
func NewBase(name string, fp *fingerprint.Registry) Base {
	return Base{
		name:          name,
		maximum:       math.MaxInt,
		cqDefaultPath: ".gitlab-ci.yml",
		logger:        slog.Default().With("checker", displayName(name)),
		fp:            fp,
	}
}

// Name returns the checker's identifier, e.g. "sphinx". It equals the
// configuration key except for XmlRunner, whose name is "junit".
func (b *Base) Name() string { return b.name }

// EnableCodeQuality turns on finding collection for the Code-Quality report.
func (b *Base) EnableCodeQuality(enabled bool) { b.cqEnabled = enabled }

// SetLimits sets the minimum/maximum bounds. maximum == -1 means unbounded.
// Returns a *warnerr.ConfigError if minimum > maximum.
func (b *Base) SetLimits(minimum, maximum int) error {
	display := maximum
	effective := maximum
	if maximum == -1 {
		effective = math.MaxInt
	}
	if minimum > effective {
		return &warnerr.ConfigError{
			Key: "min",
			Msg: fmt.Sprintf("Invalid argument: minimum limit (%d) is higher than maximum limit (%d)", minimum, display),
		}
	}
	b.minimum = minimum
	b.maximum = effective
	b.maximumDisplay = display
	return nil
}

// Minimum returns the configured minimum.
func (b *Base) Minimum() int { return b.minimum }

// Maximum returns the effective (possibly math.MaxInt) maximum.
func (b *Base) Maximum() int { return b.maximum }

// AddExcludePatterns compiles and appends to the exclude pattern list.
func (b *Base) AddExcludePatterns(regexes []string) error {
	patterns, err := compileAll(regexes)
	if err != nil {
		return err
	}
	b.excludePatterns = append(b.excludePatterns, patterns...)
	return nil
}

// AddIncludePatterns compiles and appends to the include pattern list.
func (b *Base) AddIncludePatterns(regexes []string) error {
	patterns, err := compileAll(regexes)
	if err != nil {
		return err
	}
	b.includePatterns = append(b.includePatterns, patterns...)
	return nil
}

func compileAll(regexes []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(regexes))
	for _, re := range regexes {
		compiled, err := regexp.Compile(re)
		if err != nil {
			return nil, &warnerr.ConfigError{Msg: fmt.Sprintf("invalid regex %q: %v", re, err)}
		}
		out = append(out, compiled)
	}
	return out, nil
}

// ParseSimpleConfig handles the common min/max/exclude/include/cq_* keys
// shared by Sphinx, Doxygen, XmlRunner, and the generic Regex checker.
// Coverity, Polyspace, and Robot parse their own checker-specific shape and
// keep their own limits per classification/suite/check.
func (b *Base) ParseSimpleConfig(cfg config.CheckerConfig) error {
	if err := config.SubstituteKeys(cfg, "min", "max", "cq_description_template"); err != nil {
		return err
	}

	minV, maxV := 0, 0
	if v, ok := cfg["min"]; ok {
		n, err := config.ToInt(v)
		if err != nil {
			return &warnerr.ConfigError{Key: "min", Msg: err.Error()}
		}
		minV = n
	}
	if v, ok := cfg["max"]; ok {
		n, err := config.ToInt(v)
		if err != nil {
			return &warnerr.ConfigError{Key: "max", Msg: err.Error()}
		}
		maxV = n
	}
	if err := b.SetLimits(minV, maxV); err != nil {
		return err
	}

	excl, err := config.ToStringSlice(cfg["exclude"])
	if err != nil {
		return &warnerr.ConfigError{Key: "exclude", Msg: err.Error()}
	}
	if err := b.AddExcludePatterns(excl); err != nil {
		return err
	}

	incl, err := config.ToStringSlice(cfg["include"])
	if err != nil {
		return &warnerr.ConfigError{Key: "include", Msg: err.Error()}
	}
	if err := b.AddIncludePatterns(incl); err != nil {
		return err
	}

	if v, ok := cfg["cq_default_path"].(string); ok {
		b.cqDefaultPath = v
	}
	if v, ok := cfg["cq_description_template"].(string); ok {
		b.cqDescriptionTemplate = v
	}
	return nil
}

// IsExcluded reports whether content should be silenced: inclusion
// dominates exclusion, so a line matching both is counted.
func (b *Base) IsExcluded(content string) bool {
	excludeMatch := searchPatterns(content, b.excludePatterns)
	includeMatch := searchPatterns(content, b.includePatterns)
	if includeMatch == "" && excludeMatch != "" {
		b.logger.Info(fmt.Sprintf("Excluded %q because of configured regex %q", content, excludeMatch))
		return true
	}
	return false
}

func searchPatterns(content string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if p.MatchString(content) {
			return p.String()
		}
	}
	return ""
}

// Increment bumps the count by one and records a finding when
// code-quality collection is enabled.
func (b *Base) Increment(path string, line int, severity finding.Severity, checkName, description string) {
	b.count++
	b.record(path, line, severity, checkName, description, "")
}

// IncrementClassified is Increment plus a classification label, used by
// Coverity and Polyspace.
func (b *Base) IncrementClassified(path string, line int, severity finding.Severity, checkName, description, classification string) {
	b.count++
	b.record(path, line, severity, checkName, description, classification)
}

func (b *Base) record(path string, line int, severity finding.Severity, checkName, description, classification string) {
	if !b.cqEnabled {
		return
	}
	if path == "" {
		path = b.cqDefaultPath
	}
	rendered := b.renderDescription(description)
	fp := ""
	if b.fp != nil {
		fp = b.fp.Assign(path, line, checkName, rendered)
	}
	b.findings = append(b.findings, finding.Finding{
		Path:           path,
		Line:           line,
		Severity:       severity,
		CheckName:      checkName,
		Description:    rendered,
		Classification: classification,
		Fingerprint:    fp,
	})
}

func (b *Base) renderDescription(raw string) string {
	if b.cqDescriptionTemplate == "" {
		return raw
	}
	tmpl := strings.ReplaceAll(b.cqDescriptionTemplate, "${description}", raw)
	tmpl = strings.ReplaceAll(tmpl, "$description", raw)
	return tmpl
}

// AppendToLastDescription appends a continuation line to the most recently
// recorded finding's description, used by the Doxygen checker to aggregate
// multi-line diagnostics.
func (b *Base) AppendToLastDescription(extra string) {
	if !b.cqEnabled || len(b.findings) == 0 {
		return
	}
	b.findings[len(b.findings)-1].Description += "\n" + extra
}

// ReturnCount returns the number of increments recorded so far.
func (b *Base) ReturnCount() int { return b.count }

// Findings returns the findings collected for the Code-Quality report.
func (b *Base) Findings() []finding.Finding { return b.findings }

// SummaryLines returns the sentence(s) logged by the most recent
// ReturnCheckLimits call, for reuse in the -o/--output summary file.
func (b *Base) SummaryLines() []string { return b.lastSummary }

// ReturnCheckLimits evaluates count against [minimum, maximum] and logs the
// single mandated summary line, returning 0 on success or the failure count
// (substituting 1 for a 0 count) otherwise.
func (b *Base) ReturnCheckLimits() int {
	if b.count > b.maximum || b.count < b.minimum {
		return b.returnErrorCode()
	}
	var msg string
	if b.minimum == b.maximum && b.count == b.maximum {
		msg = fmt.Sprintf("number of warnings (%d) is exactly as expected. Well done.", b.count)
	} else {
		msg = fmt.Sprintf("number of warnings (%d) is between limits %d and %d. Well done.", b.count, b.minimum, b.maximumDisplay)
	}
	b.logger.Warn(msg)
	b.lastSummary = []string{msg}
	return 0
}

func (b *Base) returnErrorCode() int {
	var reason string
	if b.count > b.maximum {
		reason = fmt.Sprintf("higher than the maximum limit (%d)", b.maximumDisplay)
	} else {
		reason = fmt.Sprintf("lower than the minimum limit (%d)", b.minimum)
	}

	errorCode := b.count
	if errorCode == 0 {
		errorCode = 1
	}

	msg := fmt.Sprintf("number of warnings (%d) is %s.", b.count, reason)
	if !namesSuppressingErrorSuffix[b.name] {
		msg += fmt.Sprintf(" Returning error code %d.", errorCode)
	}
	b.logger.Warn(msg)
	b.lastSummary = []string{msg}
	return errorCode
}

// evaluateSubLimit evaluates one classification/suite/check bucket of an
// aggregating checker (Coverity, Polyspace, Robot) against its own
// min/max, logs the same three-branch summary line scoped to label, and
// returns 0 on success or the failure count (0 substituted to 1) otherwise,
// along with the exact sentence logged (for the -o/--output summary file).
// The "Returning error code N." suffix is never emitted here: all three
// aggregating checkers suppress it per spec.md §4.1.
func evaluateSubLimit(logger *slog.Logger, label string, count, minimum, maximum, maximumDisplay int) (int, string) {
	return evaluateSubLimitWithAction(logger, label, count, minimum, maximum, maximumDisplay, false)
}

// evaluateSubLimitWithAction is evaluateSubLimit extended with Polyspace's
// per-check "warn" action: a warn-action bucket that exceeds its bounds
// still logs the failure line but contributes 0 to the aggregate exit code.
func evaluateSubLimitWithAction(logger *slog.Logger, label string, count, minimum, maximum, maximumDisplay int, warnOnly bool) (int, string) {
	scoped := logger.With("classification", label)
	if count > maximum || count < minimum {
		var reason string
		if count > maximum {
			reason = fmt.Sprintf("higher than the maximum limit (%d)", maximumDisplay)
		} else {
			reason = fmt.Sprintf("lower than the minimum limit (%d)", minimum)
		}
		msg := fmt.Sprintf("number of warnings (%d) is %s.", count, reason)
		scoped.Warn(msg)
		if warnOnly {
			return 0, msg
		}
		if count == 0 {
			return 1, msg
		}
		return count, msg
	}
	if minimum == maximum && count == maximum {
		msg := fmt.Sprintf("number of warnings (%d) is exactly as expected. Well done.", count)
		scoped.Warn(msg)
		return 0, msg
	}
	msg := fmt.Sprintf("number of warnings (%d) is between limits %d and %d. Well done.", count, minimum, maximumDisplay)
	scoped.Warn(msg)
	return 0, msg
}

func displayName(name string) string {
	if name == "junit" {
		return "JUnit"
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
