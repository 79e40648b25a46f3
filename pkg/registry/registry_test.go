package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/warngate/warngate/pkg/checker"
	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/fingerprint"
)

func newSphinx(t *testing.T, fp *fingerprint.Registry) *checker.Sphinx {
	t.Helper()
	s := checker.NewSphinx(fp)
	if err := s.ParseConfig(config.CheckerConfig{}); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	return s
}

func TestRegistry_DispatchesLineInputLineByLine(t *testing.T) {
	fp := fingerprint.NewRegistry()
	r := New(fp)
	s := newSphinx(t, fp)
	if err := r.Activate(s); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	content := "docs/a.rst:1: WARNING: first\n" + "docs/b.rst:2: ERROR: second\n"
	r.Check(content)

	if r.ReturnCount() != 2 {
		t.Fatalf("ReturnCount = %d, want 2", r.ReturnCount())
	}
}

func TestRegistry_PolyspaceMutualExclusion(t *testing.T) {
	fp := fingerprint.NewRegistry()
	r := New(fp)
	if err := r.Activate(newSphinx(t, fp)); err != nil {
		t.Fatalf("Activate sphinx: %v", err)
	}

	p := checker.NewPolyspace(fp)
	cfg := config.CheckerConfig{"checks": []any{
		map[string]any{"family": "Defect", "color": "Red", "min": 0, "max": -1},
	}}
	if err := p.ParseConfig(cfg); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if err := r.Activate(p); err == nil {
		t.Fatal("Activate polyspace alongside sphinx: want error")
	}
}

func TestRegistry_PolyspaceExclusiveEvenWhenActivatedFirst(t *testing.T) {
	fp := fingerprint.NewRegistry()
	r := New(fp)
	p := checker.NewPolyspace(fp)
	cfg := config.CheckerConfig{"checks": []any{
		map[string]any{"family": "Defect", "color": "Red", "min": 0, "max": -1},
	}}
	if err := p.ParseConfig(cfg); err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if err := r.Activate(p); err != nil {
		t.Fatalf("Activate polyspace: %v", err)
	}
	if err := r.Activate(newSphinx(t, fp)); err == nil {
		t.Fatal("Activate sphinx after polyspace: want error")
	}
}

func TestRegistry_WriteCodeQualityReportSortedAndRelative(t *testing.T) {
	fp := fingerprint.NewRegistry()
	r := New(fp)
	s := newSphinx(t, fp)
	s.EnableCodeQuality(true)
	if err := r.Activate(s); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	dir := t.TempDir()
	r.Check("/work/z.rst:5: WARNING: later in sort order\n" + "/work/a.rst:1: ERROR: earlier in sort order\n")

	out := filepath.Join(dir, "cq.json")
	if err := r.WriteCodeQualityReport(out, "/work"); err != nil {
		t.Fatalf("WriteCodeQualityReport: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	loc0 := entries[0]["location"].(map[string]any)
	if loc0["path"] != "a.rst" {
		t.Errorf("first entry path = %v, want a.rst (stable sort by path)", loc0["path"])
	}
}

func TestRegistry_DoubleActivationRejected(t *testing.T) {
	fp := fingerprint.NewRegistry()
	r := New(fp)
	if err := r.Activate(newSphinx(t, fp)); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := r.Activate(newSphinx(t, fp)); err == nil {
		t.Fatal("Activate same checker twice: want error")
	}
}
