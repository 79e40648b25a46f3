package checker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
)

// The three diagnostic-start shapes described in spec.md §4.3, scanned one
// line at a time rather than with a single opaque multi-line regex: a
// located path/line warning or error, a "<generated-source>" location with
// an optional level, or a bare Notice/Warning/Error line with no location.
var (
	doxygenPathPattern = regexp.MustCompile(`^((?:[/.]|[A-Za-z]:).+?):(-?\d+):\s*([Ww]arning|[Ee]rror): (.*)$`)
	doxygenGenPattern  = regexp.MustCompile(`^(<.+>):(-?\d+)(?::\s*([Ww]arning|[Ee]rror))?: (.*)$`)
	doxygenBarePattern = regexp.MustCompile(`^\s*([Nn]otice|[Ww]arning|[Ee]rror): (.*)$`)
)

// Doxygen counts Doxygen documentation build warnings, errors and notices.
// It is fed one line at a time; a diagnostic line opens a new finding, and
// subsequent lines that don't themselves start a new diagnostic are folded
// into that finding's description as continuation text.
type Doxygen struct {
	Base
	open bool
}

// NewDoxygen constructs a Doxygen checker.
func NewDoxygen(fp *fingerprint.Registry) *Doxygen {
	return &Doxygen{Base: NewBase("doxygen", fp)}
}

func (d *Doxygen) Mode() InputMode { return LineInput }

func (d *Doxygen) ParseConfig(cfg config.CheckerConfig) error {
	return d.ParseSimpleConfig(cfg)
}

func (d *Doxygen) Check(line string) {
	if m := doxygenPathPattern.FindStringSubmatch(line); m != nil {
		d.start(m[1], m[2], m[3], m[4], line)
		return
	}
	if m := doxygenGenPattern.FindStringSubmatch(line); m != nil {
		level := m[3]
		if level == "" {
			level = "warning"
		}
		d.start(m[1], m[2], level, m[4], line)
		return
	}
	if m := doxygenBarePattern.FindStringSubmatch(line); m != nil {
		d.start("", "0", m[1], m[2], line)
		return
	}

	if d.open && strings.TrimSpace(line) != "" {
		d.AppendToLastDescription(line)
	}
}

func (d *Doxygen) start(path, lineStr, level, msg, raw string) {
	if d.IsExcluded(raw) {
		d.open = false
		return
	}

	ln, _ := strconv.Atoi(lineStr)
	sev := finding.SeverityMinor
	if strings.EqualFold(level, "error") {
		sev = finding.SeverityMajor
	}

	d.Increment(path, ln, sev, "doxygen", msg)
	d.open = true
}
