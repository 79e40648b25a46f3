// Package tests provides scenario-level integration tests that exercise the
// checker, registry, and fingerprint packages together the way the compiled
// CLI would, without spawning the binary itself.
package tests

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/warngate/warngate/pkg/checker"
	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/registry"
)

// fixturesDir returns the absolute path to the test log fixtures directory.
func fixturesDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "fixtures", "logs")
}

// fixturePath returns the absolute path to a named fixture file.
func fixturePath(name string) string {
	return filepath.Join(fixturesDir(), name)
}

// LoadFixtureLogfile reads a named fixture file's content as a string.
func LoadFixtureLogfile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(fixturePath(name))
	if err != nil {
		t.Fatalf("LoadFixtureLogfile(%q): %v", name, err)
	}
	return string(data)
}

// testRegistry pairs a registry with the fingerprint registry backing it,
// so a test can construct checkers against the same fingerprint source.
type testRegistry struct {
	*registry.Registry
	fp *fingerprint.Registry
}

// FingerprintRegistry returns the fingerprint registry backing reg, for
// constructing checkers with checker.NewSphinx(reg.FingerprintRegistry())
// and friends.
func (r *testRegistry) FingerprintRegistry() *fingerprint.Registry { return r.fp }

// NewTestRegistry builds an empty registry backed by a fresh fingerprint
// registry, ready for checkers to be activated into it.
func NewTestRegistry() *testRegistry {
	fp := fingerprint.NewRegistry()
	return &testRegistry{Registry: registry.New(fp), fp: fp}
}

// ActivateChecker activates c into reg, failing the test on error.
func ActivateChecker(t *testing.T, reg *testRegistry, c checker.Checker, cfg config.CheckerConfig) checker.Checker {
	t.Helper()
	if err := c.ParseConfig(cfg); err != nil {
		t.Fatalf("ParseConfig(%s): %v", c.Name(), err)
	}
	if err := reg.Activate(c); err != nil {
		t.Fatalf("Activate(%s): %v", c.Name(), err)
	}
	return c
}

// CheckFixtures feeds one or more named fixture files through reg, failing
// the test if any fixture cannot be read.
func CheckFixtures(t *testing.T, reg *testRegistry, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := reg.CheckLogfile(fixturePath(name)); err != nil {
			t.Fatalf("CheckLogfile(%q): %v", name, err)
		}
	}
}
