package checker

import (
	"regexp"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

// Regex is the generic user-supplied-pattern checker: every match of the
// configured regex against a line increments the count.
type Regex struct {
	Base
	pattern *regexp.Regexp
}

// NewRegex constructs a generic Regex checker.
func NewRegex(fp *fingerprint.Registry) *Regex {
	return &Regex{Base: NewBase("regex", fp)}
}

func (r *Regex) Mode() InputMode { return LineInput }

func (r *Regex) ParseConfig(cfg config.CheckerConfig) error {
	if err := r.ParseSimpleConfig(cfg); err != nil {
		return err
	}
	pat, _ := cfg["regex"].(string)
	if pat == "" {
		return &warnerr.ConfigError{Key: "regex", Msg: "regex checker requires a pattern"}
	}
	compiled, err := regexp.Compile(pat)
	if err != nil {
		return &warnerr.ConfigError{Key: "regex", Msg: err.Error()}
	}
	r.pattern = compiled
	return nil
}

// SetPattern replaces the match pattern with a precompiled one, without
// going through ParseConfig.
func (r *Regex) SetPattern(pattern *regexp.Regexp) { r.pattern = pattern }

func (r *Regex) Check(line string) {
	if r.pattern == nil || !r.pattern.MatchString(line) {
		return
	}
	if r.IsExcluded(line) {
		return
	}
	r.Increment("", 0, finding.SeverityMinor, "regex", line)
}
