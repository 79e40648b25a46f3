package checker

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

// robotSuite mirrors the nested <suite>/<test>/<status> shape of a Robot
// Framework output.xml well enough to walk it recursively; attributes and
// elements this checker doesn't need are left unbound and dropped by the
// decoder.
type robotSuite struct {
	Name    string       `xml:"name,attr"`
	Suites  []robotSuite `xml:"suite"`
	Tests   []robotTest  `xml:"test"`
}

type robotTest struct {
	Name   string      `xml:"name,attr"`
	Status robotStatus `xml:"status"`
}

type robotStatus struct {
	Status string `xml:"status,attr"`
}

type robotSuiteLimit struct {
	name                              string // "" means every suite
	minimum, maximum, maximumDisplay int
}

// Robot counts FAIL-status <test> elements in a Robot Framework XML result,
// configured per named suite (an empty name means "all suites combined").
// Referencing a suite name absent from the document is a hard error, not a
// zero count.
type Robot struct {
	Base

	limits []*robotSuiteLimit
	counts map[string]int // suite name ("" = all) -> fail count
	seen   map[string]bool

	lastSummary []string
}

// NewRobot constructs a Robot checker.
func NewRobot(fp *fingerprint.Registry) *Robot {
	return &Robot{
		Base:   NewBase("robot", fp),
		counts: make(map[string]int),
		seen:   make(map[string]bool),
	}
}

func (r *Robot) Mode() InputMode { return BlobInput }

func (r *Robot) ParseConfig(cfg config.CheckerConfig) error {
	raw, err := config.ToMapSlice(cfg["suites"])
	if err != nil {
		return &warnerr.ConfigError{Key: "suites", Msg: err.Error()}
	}
	if len(raw) == 0 {
		// No suites configured: a single unnamed bucket covering every test.
		raw = []map[string]any{{"name": "", "min": cfg["min"], "max": cfg["max"]}}
	}

	for _, entry := range raw {
		if err := config.SubstituteKeys(entry, "min", "max"); err != nil {
			return err
		}
		name, _ := entry["name"].(string)

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

		r.limits = append(r.limits, &robotSuiteLimit{name: name, minimum: minV, maximum: effective, maximumDisplay: display})
	}
	return nil
}

func (r *Robot) Check(content string) {
	var root robotSuite
	if err := xml.Unmarshal([]byte(content), &root); err != nil {
		return
	}
	r.walk(&root)
}

func (r *Robot) walk(s *robotSuite) {
	if s.Name != "" {
		r.seen[s.Name] = true
	}
	for _, t := range s.Tests {
		if strings.EqualFold(t.Status.Status, "FAIL") {
			r.counts[""]++
			if s.Name != "" {
				r.counts[s.Name]++
			}
			r.reportFailure(s.Name, t.Name)
		}
	}
	for i := range s.Suites {
		r.walk(&s.Suites[i])
	}
}

func (r *Robot) reportFailure(suite, test string) {
	checkName := test
	if suite != "" {
		checkName = suite + "." + test
	}
	desc := fmt.Sprintf("%s failed", checkName)
	if r.IsExcluded(desc) {
		return
	}
	r.IncrementClassified("", 0, finding.SeverityMajor, "robot", desc, suite)
}

// ReturnCount returns the number of FAIL tests across every suite in the
// document, each counted once, whichever suites are configured.
func (r *Robot) ReturnCount() int { return r.counts[""] }

// ReturnCheckLimits validates that every configured suite name actually
// appeared in the result document, then evaluates each suite bucket
// independently against its own limits.
func (r *Robot) ReturnCheckLimits() int {
	for _, lim := range r.limits {
		if lim.name != "" && !r.seen[lim.name] {
			r.logger.Error((&warnerr.SuiteNotFound{Name: lim.name}).Error())
			return -1
		}
	}

	total := 0
	summary := make([]string, 0, len(r.limits))
	for _, lim := range r.limits {
		label := lim.name
		if label == "" {
			label = "all suites"
		}
		n, msg := evaluateSubLimit(r.logger, label, r.counts[lim.name], lim.minimum, lim.maximum, lim.maximumDisplay)
		total += n
		summary = append(summary, msg)
	}
	r.lastSummary = summary
	return total
}

// SummaryLines returns the per-suite sentences produced by the most recent
// ReturnCheckLimits call, in configured suite order. Empty when the most
// recent call short-circuited on a missing suite name.
func (r *Robot) SummaryLines() []string { return r.lastSummary }
