// Package finding defines the single diagnostic record shared by every
// checker and the registry's Code-Quality report writer.
package finding

// Severity is the GitLab Code-Quality severity scale.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
	SeverityBlocker  Severity = "blocker"
)

func (s Severity) String() string { return string(s) }

// Finding is one diagnostic record produced by a checker.
//
// Path is relative when a base directory is known, else absolute. Line is
// 1-based, 0 if absent. Classification is set only by Coverity and
// Polyspace. Fingerprint is assigned by the fingerprint registry and is
// empty until that happens.
type Finding struct {
	Path           string
	Line           int
	Column         int
	Severity       Severity
	CheckName      string
	Description    string
	Classification string
	Fingerprint    string
}
