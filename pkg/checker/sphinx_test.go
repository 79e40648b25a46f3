package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
)

func TestSphinx_SeverityMapping(t *testing.T) {
	cases := []struct {
		level string
		want  finding.Severity
	}{
		{"DEBUG", finding.SeverityInfo},
		{"INFO", finding.SeverityInfo},
		{"WARNING", finding.SeverityMinor},
		{"ERROR", finding.SeverityMajor},
		{"SEVERE", finding.SeverityCritical},
	}
	for _, tc := range cases {
		s := NewSphinx(fingerprint.NewRegistry())
		if err := s.ParseConfig(config.CheckerConfig{}); err != nil {
			t.Fatalf("ParseConfig: %v", err)
		}
		s.EnableCodeQuality(true)
		s.Check("docs/index.rst:12: " + tc.level + ": something is wrong")
		got := s.Findings()
		if len(got) != 1 {
			t.Fatalf("level %s: got %d findings, want 1", tc.level, len(got))
		}
		if got[0].Severity != tc.want {
			t.Errorf("level %s: severity = %s, want %s", tc.level, got[0].Severity, tc.want)
		}
	}
}

func TestSphinx_DeprecationSuppressedByDefault(t *testing.T) {
	s := NewSphinx(fingerprint.NewRegistry())
	if err := s.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s.Check("docs/index.rst:12: WARNING: RemovedInSphinx40Warning: old API")
	if s.ReturnCount() != 0 {
		t.Errorf("count = %d, want 0 (deprecation suppressed)", s.ReturnCount())
	}
}

func TestSphinx_DeprecationIncludedWhenOptedIn(t *testing.T) {
	s := NewSphinx(fingerprint.NewRegistry())
	if err := s.ParseConfig(config.CheckerConfig{"include_sphinx_deprecation": true}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s.Check("docs/index.rst:12: WARNING: RemovedInSphinx40Warning: old API")
	if s.ReturnCount() != 1 {
		t.Errorf("count = %d, want 1", s.ReturnCount())
	}
}

func TestSphinx_NoneLine(t *testing.T) {
	s := NewSphinx(fingerprint.NewRegistry())
	if err := s.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s.EnableCodeQuality(true)
	s.Check("docs/index.rst:None: WARNING: no line number available")
	got := s.Findings()
	if len(got) != 1 || got[0].Line != 0 {
		t.Fatalf("findings = %+v, want one finding with line 0", got)
	}
}

func TestSphinx_FindingShape(t *testing.T) {
	s := NewSphinx(fingerprint.NewRegistry())
	if err := s.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s.EnableCodeQuality(true)
	s.Check("docs/index.rst:12: WARNING: toctree contains a broken reference")

	got := s.Findings()
	for i := range got {
		got[i].Fingerprint = "" // assigned by xxhash; checked separately
	}
	want := []finding.Finding{{
		Path:        "docs/index.rst",
		Line:        12,
		Severity:    finding.SeverityMinor,
		CheckName:   "sphinx",
		Description: "toctree contains a broken reference",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Findings() mismatch (-want +got):\n%s", diff)
	}
}

func TestSphinx_NonMatchingLineIgnored(t *testing.T) {
	s := NewSphinx(fingerprint.NewRegistry())
	if err := s.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s.Check("just some ordinary build output")
	if s.ReturnCount() != 0 {
		t.Errorf("count = %d, want 0", s.ReturnCount())
	}
}
