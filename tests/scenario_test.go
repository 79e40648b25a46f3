package tests

import (
	"testing"

	"github.com/warngate/warngate/pkg/checker"
	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/warnerr"
)

// S1: a Sphinx build with one ordinary WARNING line and a [0,0] limit
// fails with exit code 1 (the count of the single warning).
func TestScenario_SphinxBaseline(t *testing.T) {
	reg := NewTestRegistry()
	sphinx := checker.NewSphinx(reg.FingerprintRegistry())
	ActivateChecker(t, reg, sphinx, config.CheckerConfig{"min": 0, "max": 0})

	CheckFixtures(t, reg, "sphinx_baseline.log")

	if got := reg.ReturnCount(); got != 1 {
		t.Fatalf("ReturnCount() = %d, want 1", got)
	}
	if got := reg.ReturnCheckLimits(); got != 1 {
		t.Fatalf("ReturnCheckLimits() = %d, want 1", got)
	}
}

// S2: RemovedInSphinx* deprecation warnings are suppressed by default, so
// a log containing only deprecation lines counts zero and exits clean.
func TestScenario_SphinxDeprecationSuppressed(t *testing.T) {
	reg := NewTestRegistry()
	sphinx := checker.NewSphinx(reg.FingerprintRegistry())
	ActivateChecker(t, reg, sphinx, config.CheckerConfig{"min": 0, "max": 0})

	CheckFixtures(t, reg, "sphinx_deprecation.log")

	if got := reg.ReturnCount(); got != 0 {
		t.Fatalf("ReturnCount() = %d, want 0", got)
	}
	if got := reg.ReturnCheckLimits(); got != 0 {
		t.Fatalf("ReturnCheckLimits() = %d, want 0", got)
	}
}

// S3: a Doxygen log with two located diagnostics and interleaved
// continuation lines counts two findings, continuation text folded in.
func TestScenario_DoxygenMultiline(t *testing.T) {
	reg := NewTestRegistry()
	dox := checker.NewDoxygen(reg.FingerprintRegistry())
	ActivateChecker(t, reg, dox, config.CheckerConfig{"min": 0, "max": 10})

	CheckFixtures(t, reg, "doxygen_multiline.log")

	if got := reg.ReturnCount(); got != 2 {
		t.Fatalf("ReturnCount() = %d, want 2", got)
	}
}

// S4: two JUnit result files, one with a single failure and one with a
// failure plus an error, accumulate to three and exit with that count.
func TestScenario_JUnitMultiFile(t *testing.T) {
	reg := NewTestRegistry()
	junit := checker.NewXmlRunner(reg.FingerprintRegistry())
	ActivateChecker(t, reg, junit, config.CheckerConfig{"min": 0, "max": 0})

	CheckFixtures(t, reg, "junit_single_fail.xml", "junit_double_fail.xml")

	if got := reg.ReturnCount(); got != 3 {
		t.Fatalf("ReturnCount() = %d, want 3", got)
	}
	if got := reg.ReturnCheckLimits(); got != 3 {
		t.Fatalf("ReturnCheckLimits() = %d, want 3", got)
	}
}

// S5: two Coverity lines sharing one CID dedup to a single surviving
// record, keeping only the highest #k of N.
func TestScenario_CoverityDedup(t *testing.T) {
	reg := NewTestRegistry()
	cov := checker.NewCoverity(reg.FingerprintRegistry())
	ActivateChecker(t, reg, cov, config.CheckerConfig{
		"classification": map[string]any{
			"unclassified": map[string]any{"min": 0, "max": 0},
		},
	})

	CheckFixtures(t, reg, "coverity_dedup.txt")

	if got := reg.ReturnCount(); got != 1 {
		t.Fatalf("ReturnCount() = %d, want 1", got)
	}
	if got := reg.ReturnCheckLimits(); got != 1 {
		t.Fatalf("ReturnCheckLimits() = %d, want 1", got)
	}
}

// S6: per-classification limits that exactly match the fixture's tally
// across three classifications all evaluate clean.
func TestScenario_CoverityPerClassificationExact(t *testing.T) {
	reg := NewTestRegistry()
	cov := checker.NewCoverity(reg.FingerprintRegistry())
	ActivateChecker(t, reg, cov, config.CheckerConfig{
		"classification": map[string]any{
			"unclassified":   map[string]any{"min": 8, "max": 8},
			"intentional":    map[string]any{"min": 1, "max": 1},
			"false positive": map[string]any{"min": 2, "max": 2},
		},
	})

	CheckFixtures(t, reg, "coverity_full.txt")

	if got := reg.ReturnCount(); got != 11 {
		t.Fatalf("ReturnCount() = %d, want 11", got)
	}
	if got := reg.ReturnCheckLimits(); got != 0 {
		t.Fatalf("ReturnCheckLimits() = %d, want 0", got)
	}
}

// S7: referencing a suite name absent from the Robot result document is a
// hard -1, not a zero count, and logs the missing suite's name.
func TestScenario_RobotSuiteNotFound(t *testing.T) {
	reg := NewTestRegistry()
	rob := checker.NewRobot(reg.FingerprintRegistry())
	ActivateChecker(t, reg, rob, config.CheckerConfig{
		"suites": []any{
			map[string]any{"name": "Inv4lid Name", "min": 0, "max": 0},
		},
	})

	CheckFixtures(t, reg, "robot_missing_suite.xml")

	if got := reg.ReturnCheckLimits(); got != -1 {
		t.Fatalf("ReturnCheckLimits() = %d, want -1", got)
	}
}

// S9: a per-classification bucket with minimum above maximum is rejected
// at configuration time, not silently clamped.
func TestScenario_MinAboveMaxRejected(t *testing.T) {
	cov := checker.NewCoverity(nil)
	err := cov.ParseConfig(config.CheckerConfig{
		"classification": map[string]any{
			"bug": map[string]any{"min": 5, "max": 1},
		},
	})
	if err == nil {
		t.Fatal("ParseConfig() = nil, want error for minimum above maximum")
	}
	var cfgErr *warnerr.ConfigError
	if !asConfigError(err, &cfgErr) {
		t.Fatalf("ParseConfig() error = %v, want *warnerr.ConfigError", err)
	}
}

func asConfigError(err error, target **warnerr.ConfigError) bool {
	if ce, ok := err.(*warnerr.ConfigError); ok {
		*target = ce
		return true
	}
	return false
}
