package cmd

import (
	"testing"

	"github.com/warngate/warngate/pkg/warnerr"
)

// S8: --exact-warnings conflicts with an explicitly set --minwarnings or
// --maxwarnings; effectiveLimits must reject the combination rather than
// silently picking one.
func TestEffectiveLimits_ExactConflictsWithMinMax(t *testing.T) {
	resetLimitFlags := func() {
		exactWarnings = -1
		minWarnings = 0
		maxWarnings = -1
	}

	t.Run("exact with max set", func(t *testing.T) {
		resetLimitFlags()
		exactWarnings = 5
		maxWarnings = 10
		_, _, err := effectiveLimits()
		if err == nil {
			t.Fatal("effectiveLimits() = nil error, want conflict")
		}
		if _, ok := err.(*warnerr.ConfigError); !ok {
			t.Fatalf("effectiveLimits() error = %T, want *warnerr.ConfigError", err)
		}
	})

	t.Run("exact with min set", func(t *testing.T) {
		resetLimitFlags()
		exactWarnings = 5
		minWarnings = 2
		_, _, err := effectiveLimits()
		if err == nil {
			t.Fatal("effectiveLimits() = nil error, want conflict")
		}
	})

	t.Run("exact alone resolves to min=max", func(t *testing.T) {
		resetLimitFlags()
		exactWarnings = 7
		min, max, err := effectiveLimits()
		if err != nil {
			t.Fatalf("effectiveLimits() error = %v", err)
		}
		if min != 7 || max != 7 {
			t.Fatalf("effectiveLimits() = (%d, %d), want (7, 7)", min, max)
		}
	})

	t.Run("min/max alone without exact", func(t *testing.T) {
		resetLimitFlags()
		minWarnings = 1
		maxWarnings = 9
		min, max, err := effectiveLimits()
		if err != nil {
			t.Fatalf("effectiveLimits() error = %v", err)
		}
		if min != 1 || max != 9 {
			t.Fatalf("effectiveLimits() = (%d, %d), want (1, 9)", min, max)
		}
	})

	resetLimitFlags()
}
