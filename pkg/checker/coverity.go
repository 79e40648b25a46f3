package checker

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/warnerr"
)

var coverityLinePattern = regexp.MustCompile(
	`^(.+?):(\d+): CID (\d+) \(#(\d+) of (\d+)\): (.+?): (.+)$`,
)

type coverityClassInfo struct {
	canonical string
	severity  finding.Severity
}

// coverityClassifications maps a lowercased classification token to its
// canonical form and severity. Any other classification is unrecognized.
var coverityClassifications = map[string]coverityClassInfo{
	"unclassified":   {"Unclassified", finding.SeverityMajor},
	"pending":        {"Pending", finding.SeverityMajor},
	"bug":            {"Bug", finding.SeverityCritical},
	"intentional":    {"Intentional", finding.SeverityInfo},
	"false positive": {"False Positive", finding.SeverityInfo},
}

type coverityBucket struct {
	minimum, maximum, maximumDisplay int
}

type coverityRecord struct {
	k, n           int
	path           string
	line           int
	classification string
	description    string
}

// Coverity counts Coverity static-analysis defects, deduplicated by CID
// (keeping only the highest #k of N line per CID) and tallied per
// classification against independently configured per-classification
// limits.
type Coverity struct {
	Base

	buckets map[string]*coverityBucket // canonical classification -> limits
	records map[string]*coverityRecord // CID -> surviving record
	order   []string                   // CID insertion order, for stable findings output

	lastSummary []string
}

// NewCoverity constructs a Coverity checker.
func NewCoverity(fp *fingerprint.Registry) *Coverity {
	return &Coverity{
		Base:    NewBase("coverity", fp),
		buckets: make(map[string]*coverityBucket),
		records: make(map[string]*coverityRecord),
	}
}

func (c *Coverity) Mode() InputMode { return LineInput }

func (c *Coverity) ParseConfig(cfg config.CheckerConfig) error {
	excl, err := config.ToStringSlice(cfg["exclude"])
	if err != nil {
		return &warnerr.ConfigError{Key: "exclude", Msg: err.Error()}
	}
	if err := c.AddExcludePatterns(excl); err != nil {
		return err
	}
	incl, err := config.ToStringSlice(cfg["include"])
	if err != nil {
		return &warnerr.ConfigError{Key: "include", Msg: err.Error()}
	}
	if err := c.AddIncludePatterns(incl); err != nil {
		return err
	}
	if v, ok := cfg["cq_default_path"].(string); ok {
		c.cqDefaultPath = v
	}

	raw, ok := cfg["classification"].(map[string]any)
	if !ok {
		return &warnerr.ConfigError{Key: "classification", Msg: "coverity requires a classification map"}
	}
	for key, v := range raw {
		info, known := lookupClassification(key)
		if !known {
			return &warnerr.ConfigError{Key: key, Msg: fmt.Sprintf("unknown classification %q referenced in limits", key)}
		}
		bucketCfg, ok := v.(map[string]any)
		if !ok {
			return &warnerr.ConfigError{Key: key, Msg: "classification entry must be a map with min/max"}
		}
		if err := config.SubstituteKeys(bucketCfg, "min", "max"); err != nil {
			return err
		}
		minV, err := config.ToInt(bucketCfg["min"])
		if err != nil {
			return &warnerr.ConfigError{Key: key, Msg: err.Error()}
		}
		maxV, err := config.ToInt(bucketCfg["max"])
		if err != nil {
			return &warnerr.ConfigError{Key: key, Msg: err.Error()}
		}
		display := maxV
		effective := maxV
		if maxV == -1 {
			effective = math.MaxInt
		}
		if minV > effective {
			return &warnerr.ConfigError{Key: key, Msg: fmt.Sprintf("Invalid argument: minimum limit (%d) is higher than maximum limit (%d)", minV, display)}
		}
		c.buckets[info.canonical] = &coverityBucket{minimum: minV, maximum: effective, maximumDisplay: display}
	}
	return nil
}

func lookupClassification(key string) (coverityClassInfo, bool) {
	info, ok := coverityClassifications[strings.ToLower(key)]
	return info, ok
}

func (c *Coverity) Check(line string) {
	m := coverityLinePattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	path, lineStr, cid, kStr, nStr, _, rest := m[1], m[2], m[3], m[4], m[5], m[6], m[7]

	if c.IsExcluded(line) {
		return
	}

	parts := strings.SplitN(rest, ", ", 2)
	classKey := parts[0]
	info, known := lookupClassification(classKey)
	if !known {
		c.logger.Warn(fmt.Sprintf("Unrecognized classification '%s'", classKey))
		return
	}

	k, _ := strconv.Atoi(kStr)
	n, _ := strconv.Atoi(nStr)
	lineNo, _ := strconv.Atoi(lineStr)

	existing, seen := c.records[cid]
	if seen && existing.k >= k {
		return
	}
	if !seen {
		c.order = append(c.order, cid)
	}
	c.records[cid] = &coverityRecord{
		k: k, n: n,
		path:           path,
		line:           lineNo,
		classification: info.canonical,
		description:    fmt.Sprintf("CID %s: %s", cid, rest),
	}
}

// ReturnCount sums record counts across every classification.
func (c *Coverity) ReturnCount() int { return len(c.records) }

// ReturnCheckLimits evaluates each classification bucket independently and
// returns the sum of their failures (zero substituted to one per bucket).
func (c *Coverity) ReturnCheckLimits() int {
	tallies := make(map[string]int)
	for _, rec := range c.records {
		tallies[rec.classification]++
	}

	canonicals := make([]string, 0, len(c.buckets))
	for canonical := range c.buckets {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	total := 0
	summary := make([]string, 0, len(canonicals))
	for _, canonical := range canonicals {
		bucket := c.buckets[canonical]
		n, msg := evaluateSubLimit(c.logger, canonical, tallies[canonical], bucket.minimum, bucket.maximum, bucket.maximumDisplay)
		total += n
		summary = append(summary, msg)
	}
	c.lastSummary = summary
	return total
}

// SummaryLines returns the per-classification sentences produced by the
// most recent ReturnCheckLimits call, in canonical-classification order.
func (c *Coverity) SummaryLines() []string { return c.lastSummary }

// Findings renders the surviving (deduplicated) records as findings,
// assigning severities and fingerprints at call time.
func (c *Coverity) Findings() []finding.Finding {
	if !c.cqEnabled {
		return nil
	}
	findings := make([]finding.Finding, 0, len(c.order))
	for _, cid := range c.order {
		rec := c.records[cid]
		info, _ := lookupClassification(strings.ToLower(rec.classification))
		path := rec.path
		if path == "" {
			path = c.cqDefaultPath
		}
		desc := c.renderDescription(rec.description)
		fp := ""
		if c.fp != nil {
			fp = c.fp.Assign(path, rec.line, "coverity", desc)
		}
		findings = append(findings, finding.Finding{
			Path:           path,
			Line:           rec.line,
			Severity:       info.severity,
			CheckName:      fmt.Sprintf("CID_%s", cid),
			Description:    desc,
			Classification: rec.classification,
			Fingerprint:    fp,
		})
	}
	return findings
}
