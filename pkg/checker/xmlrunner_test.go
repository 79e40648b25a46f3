package checker

import (
	"testing"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/fingerprint"
)

const sampleJUnit = `<?xml version="1.0"?>
<testsuite name="suite" tests="3" failures="1" errors="1">
  <testcase classname="pkg.Foo" name="test_ok" time="0.01"/>
  <testcase classname="pkg.Foo" name="test_fail" time="0.01">
    <failure message="assertion failed">expected 1, got 2</failure>
  </testcase>
  <testcase classname="pkg.Bar" name="test_error" time="0.02">
    <error message="boom">traceback...</error>
  </testcase>
</testsuite>
`

func TestXmlRunner_CountsFailuresAndErrors(t *testing.T) {
	x := NewXmlRunner(fingerprint.NewRegistry())
	if err := x.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	x.EnableCodeQuality(true)
	x.Check(sampleJUnit)

	if x.ReturnCount() != 2 {
		t.Fatalf("count = %d, want 2", x.ReturnCount())
	}
	findings := x.Findings()
	if len(findings) != 2 {
		t.Fatalf("findings = %d, want 2", len(findings))
	}
	if findings[0].CheckName != "pkg.Foo.test_fail" {
		t.Errorf("check name = %q, want pkg.Foo.test_fail", findings[0].CheckName)
	}
	if findings[0].Description != "assertion failed" {
		t.Errorf("description = %q, want the failure message", findings[0].Description)
	}
}

func TestXmlRunner_PassingTestCasesDoNotCount(t *testing.T) {
	x := NewXmlRunner(fingerprint.NewRegistry())
	if err := x.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	x.Check(`<testsuite><testcase classname="a" name="b"/></testsuite>`)
	if x.ReturnCount() != 0 {
		t.Errorf("count = %d, want 0", x.ReturnCount())
	}
}

func TestXmlRunner_AccumulatesAcrossMultipleFiles(t *testing.T) {
	x := NewXmlRunner(fingerprint.NewRegistry())
	if err := x.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	x.Check(sampleJUnit)
	x.Check(sampleJUnit)
	if x.ReturnCount() != 4 {
		t.Errorf("count = %d, want 4 across two files", x.ReturnCount())
	}
}
