package checker

import (
	"regexp"
	"strings"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
)

var sphinxPattern = regexp.MustCompile(`^(.+?):(\d+|None): (DEBUG|INFO|WARNING|ERROR|SEVERE): (.+)$`)

var sphinxSeverity = map[string]finding.Severity{
	"DEBUG":   finding.SeverityInfo,
	"INFO":    finding.SeverityInfo,
	"WARNING": finding.SeverityMinor,
	"ERROR":   finding.SeverityMajor,
	"SEVERE":  finding.SeverityCritical,
}

// Sphinx counts Sphinx documentation build warnings.
type Sphinx struct {
	Base
	includeDeprecation bool
}

// NewSphinx constructs a Sphinx checker.
func NewSphinx(fp *fingerprint.Registry) *Sphinx {
	return &Sphinx{Base: NewBase("sphinx", fp)}
}

func (s *Sphinx) Mode() InputMode { return LineInput }

func (s *Sphinx) ParseConfig(cfg config.CheckerConfig) error {
	if err := s.ParseSimpleConfig(cfg); err != nil {
		return err
	}
	if v, ok := cfg["include_sphinx_deprecation"].(bool); ok {
		s.includeDeprecation = v
	}
	return nil
}

// SetIncludeDeprecation sets whether RemovedInSphinx deprecation warnings
// are counted, the same switch as the include_sphinx_deprecation config key.
func (s *Sphinx) SetIncludeDeprecation(v bool) { s.includeDeprecation = v }

func (s *Sphinx) Check(line string) {
	m := sphinxPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	path, lineNo, level, desc := m[1], m[2], m[3], m[4]

	if !s.includeDeprecation && strings.Contains(desc, "RemovedInSphinx") {
		return
	}
	if s.IsExcluded(line) {
		return
	}

	sev := sphinxSeverity[level]
	ln := 0
	if n, err := parseOptionalInt(lineNo); err == nil {
		ln = n
	}
	s.Increment(path, ln, sev, "sphinx", desc)
}

func parseOptionalInt(s string) (int, error) {
	if s == "None" {
		return 0, nil
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errNotInt
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
