package checker

import (
	"encoding/csv"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

type polyspaceRule struct {
	family, color                    string
	minimum, maximum, maximumDisplay int
	warnOnly                         bool
	exclude, include                 []*regexp.Regexp
}

// Polyspace counts unjustified rows from a Polyspace TSV export, grouped by
// configured (family, color) pairs. It is mutually exclusive with every
// other checker; that invariant is enforced by the registry at activation
// time, not here.
type Polyspace struct {
	Base

	rules          []*polyspaceRule
	tallies        []int
	findingsByRule [][]finding.Finding

	lastSummary []string
}

// NewPolyspace constructs a Polyspace checker.
func NewPolyspace(fp *fingerprint.Registry) *Polyspace {
	return &Polyspace{Base: NewBase("polyspace", fp)}
}

func (p *Polyspace) Mode() InputMode { return BlobInput }

func (p *Polyspace) ParseConfig(cfg config.CheckerConfig) error {
	raw, err := config.ToMapSlice(cfg["checks"])
	if err != nil {
		return &warnerr.ConfigError{Key: "checks", Msg: err.Error()}
	}
	if len(raw) == 0 {
		return &warnerr.ConfigError{Key: "checks", Msg: "polyspace requires at least one check entry"}
	}

	for _, entry := range raw {
		if err := config.SubstituteKeys(entry, "min", "max"); err != nil {
			return err
		}
		family, _ := entry["family"].(string)
		color, _ := entry["color"].(string)
		if family == "" || color == "" {
			return &warnerr.ConfigError{Msg: "polyspace check entry requires family and color"}
		}

		minV, err := config.ToInt(entry["min"])
		if err != nil {
			return &warnerr.ConfigError{Key: "min", Msg: err.Error()}
		}
		maxV, err := config.ToInt(entry["max"])
		if err != nil {
			return &warnerr.ConfigError{Key: "max", Msg: err.Error()}
		}
		display := maxV
		effective := maxV
		if maxV == -1 {
			effective = math.MaxInt
		}
		if minV > effective {
			return &warnerr.ConfigError{Msg: fmt.Sprintf("Invalid argument: minimum limit (%d) is higher than maximum limit (%d)", minV, display)}
		}

		excl, err := config.ToStringSlice(entry["exclude"])
		if err != nil {
			return &warnerr.ConfigError{Key: "exclude", Msg: err.Error()}
		}
		excludeCompiled, err := compileAll(excl)
		if err != nil {
			return err
		}
		incl, err := config.ToStringSlice(entry["include"])
		if err != nil {
			return &warnerr.ConfigError{Key: "include", Msg: err.Error()}
		}
		includeCompiled, err := compileAll(incl)
		if err != nil {
			return err
		}

		action, _ := entry["action"].(string)

		p.rules = append(p.rules, &polyspaceRule{
			family: family, color: color,
			minimum: minV, maximum: effective, maximumDisplay: display,
			warnOnly: action == "warn",
			exclude:  excludeCompiled, include: includeCompiled,
		})
	}

	p.tallies = make([]int, len(p.rules))
	p.findingsByRule = make([][]finding.Finding, len(p.rules))
	return nil
}

func (p *Polyspace) Check(content string) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		return
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	get := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	for _, row := range rows[1:] {
		family := get(row, "Family")
		color := get(row, "Color")
		justified := get(row, "Justified")
		checkCol := get(row, "Check")

		for i, rule := range p.rules {
			if !strings.EqualFold(family, rule.family) {
				continue
			}
			if !strings.EqualFold(color, rule.color) && rule.color != "*" {
				continue
			}

			excludeMatch := searchPatterns(checkCol, rule.exclude)
			includeMatch := searchPatterns(checkCol, rule.include)
			if includeMatch == "" && excludeMatch != "" {
				continue
			}

			if !strings.EqualFold(justified, "Unjustified") {
				continue
			}

			p.tallies[i]++
			if p.cqEnabled {
				lineNo, _ := strconv.Atoi(get(row, "Line"))
				desc := fmt.Sprintf("%s/%s: %s", family, color, get(row, "Information"))
				path := get(row, "File")
				if path == "" {
					path = p.cqDefaultPath
				}
				fp := ""
				if p.fp != nil {
					fp = p.fp.Assign(path, lineNo, get(row, "ID"), desc)
				}
				p.findingsByRule[i] = append(p.findingsByRule[i], finding.Finding{
					Path: path, Line: lineNo,
					Severity:       colorSeverity(color),
					CheckName:      get(row, "ID"),
					Description:    desc,
					Classification: fmt.Sprintf("%s/%s", family, color),
					Fingerprint:    fp,
				})
			}
		}
	}
}

func colorSeverity(color string) finding.Severity {
	switch strings.ToLower(color) {
	case "red":
		return finding.SeverityCritical
	case "orange":
		return finding.SeverityMajor
	default:
		return finding.SeverityMinor
	}
}

// ReturnCount sums unjustified rows across every configured check.
func (p *Polyspace) ReturnCount() int {
	total := 0
	for _, t := range p.tallies {
		total += t
	}
	return total
}

// ReturnCheckLimits evaluates each configured check independently, honoring
// the "warn" action (logs but never contributes to the exit code), and
// returns the sum of the remaining failures.
func (p *Polyspace) ReturnCheckLimits() int {
	total := 0
	summary := make([]string, 0, len(p.rules))
	for i, rule := range p.rules {
		label := fmt.Sprintf("%s/%s", rule.family, rule.color)
		n, msg := evaluateSubLimitWithAction(p.logger, label, p.tallies[i], rule.minimum, rule.maximum, rule.maximumDisplay, rule.warnOnly)
		total += n
		summary = append(summary, msg)
	}
	p.lastSummary = summary
	return total
}

// SummaryLines returns the per-check sentences produced by the most recent
// ReturnCheckLimits call, in configured check order.
func (p *Polyspace) SummaryLines() []string { return p.lastSummary }

// Findings flattens the per-check findings collected during Check.
func (p *Polyspace) Findings() []finding.Finding {
	var all []finding.Finding
	for _, fs := range p.findingsByRule {
		all = append(all, fs...)
	}
	return all
}
