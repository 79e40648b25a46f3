package cmd

import (
	"github.com/spf13/cobra"

	"github.com/warngate/warngate/pkg/checker"
	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/fingerprint"
	"github.com/warngate/warngate/pkg/registry"
	"github.com/warngate/warngate/pkg/warnerr"
)

var (
	activateDoxygen   bool
	activateSphinx    bool
	activateJUnit     bool
	activateCoverity  bool
	activateRobot     bool
	robotSuiteName    string
	regexPattern      string
	maxWarnings       int
	minWarnings       int
	exactWarnings     int
	includeSphinxDep  bool
)

func registerCheckerFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&activateDoxygen, "doxygen", "d", false, "activate the Doxygen checker")
	c.Flags().BoolVarP(&activateSphinx, "sphinx", "s", false, "activate the Sphinx checker")
	c.Flags().BoolVarP(&activateJUnit, "junit", "j", false, "activate the XmlRunner (JUnit) checker")
	c.Flags().BoolVar(&activateCoverity, "coverity", false, "activate the Coverity checker")
	c.Flags().BoolVar(&activateRobot, "robot", false, "activate the Robot checker")
	c.Flags().StringVar(&robotSuiteName, "name", "", "restrict the Robot checker to one suite")
	c.Flags().StringVarP(&regexPattern, "regex", "r", "", "activate the generic regex checker with this pattern")

	c.Flags().IntVarP(&maxWarnings, "maxwarnings", "m", -1, "upper bound, per active checker")
	c.Flags().IntVar(&maxWarnings, "max-warnings", -1, "alias of --maxwarnings")
	c.Flags().IntVar(&minWarnings, "minwarnings", 0, "lower bound, per active checker")
	c.Flags().IntVar(&minWarnings, "min-warnings", 0, "alias of --minwarnings")
	c.Flags().IntVar(&exactWarnings, "exact-warnings", -1, "sets min=max=N; exclusive with the two bounds above")

	c.Flags().BoolVar(&includeSphinxDep, "include-sphinx-deprecation", false, "opt in to counting Sphinx deprecation warnings")
}

// effectiveLimits resolves --exact-warnings against the --min/--maxwarnings
// pair, enforcing their mutual exclusion.
func effectiveLimits() (min, max int, err error) {
	if exactWarnings >= 0 {
		if maxWarnings >= 0 || minWarnings != 0 {
			return 0, 0, &warnerr.ConfigError{Msg: "--exact-warnings is exclusive with --minwarnings/--maxwarnings"}
		}
		return exactWarnings, exactWarnings, nil
	}
	return minWarnings, maxWarnings, nil
}

// buildRegistry constructs the active checker set, either from a loaded
// configuration file or from the per-checker activation flags. The two
// activation styles are mutually exclusive per spec.
func buildRegistry(fp *fingerprint.Registry) (*registry.Registry, error) {
	usingFlags := activateDoxygen || activateSphinx || activateJUnit || activateCoverity || activateRobot || regexPattern != ""
	if cfgFile != "" && usingFlags {
		return nil, &warnerr.ConfigError{Msg: "--config is exclusive with per-checker activation flags"}
	}

	reg := registry.New(fp)

	if cfgFile != "" || !usingFlags {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		if err := activateFromConfig(reg, fp, cfg); err != nil {
			return nil, err
		}
		return reg, nil
	}

	if err := activateFromFlags(reg, fp); err != nil {
		return nil, err
	}
	return reg, nil
}

func activateFromConfig(reg *registry.Registry, fp *fingerprint.Registry, cfg config.Config) error {
	factories := map[string]func(*fingerprint.Registry) checker.Checker{
		"sphinx":    func(fp *fingerprint.Registry) checker.Checker { return checker.NewSphinx(fp) },
		"doxygen":   func(fp *fingerprint.Registry) checker.Checker { return checker.NewDoxygen(fp) },
		"xmlrunner": func(fp *fingerprint.Registry) checker.Checker { return checker.NewXmlRunner(fp) },
		"coverity":  func(fp *fingerprint.Registry) checker.Checker { return checker.NewCoverity(fp) },
		"polyspace": func(fp *fingerprint.Registry) checker.Checker { return checker.NewPolyspace(fp) },
		"robot":     func(fp *fingerprint.Registry) checker.Checker { return checker.NewRobot(fp) },
		"regex":     func(fp *fingerprint.Registry) checker.Checker { return checker.NewRegex(fp) },
	}

	for name, checkerCfg := range cfg {
		newChecker, known := factories[name]
		if !known {
			return &warnerr.ConfigError{Key: name, Msg: "unknown checker name in configuration"}
		}
		if enabled, ok := checkerCfg["enabled"].(bool); ok && !enabled {
			continue
		}

		c := newChecker(fp)
		if err := c.ParseConfig(checkerCfg); err != nil {
			return err
		}
		if b, ok := c.(interface{ EnableCodeQuality(bool) }); ok && cqPath != "" {
			b.EnableCodeQuality(true)
		}
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	return nil
}

func activateFromFlags(reg *registry.Registry, fp *fingerprint.Registry) error {
	min, max, err := effectiveLimits()
	if err != nil {
		return err
	}

	enableCQ := cqPath != ""

	if activateSphinx {
		c := checker.NewSphinx(fp)
		cfg := config.CheckerConfig{"min": min, "max": max, "include_sphinx_deprecation": includeSphinxDep}
		if err := c.ParseConfig(cfg); err != nil {
			return err
		}
		c.EnableCodeQuality(enableCQ)
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	if activateDoxygen {
		c := checker.NewDoxygen(fp)
		if err := c.ParseConfig(config.CheckerConfig{"min": min, "max": max}); err != nil {
			return err
		}
		c.EnableCodeQuality(enableCQ)
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	if activateJUnit {
		c := checker.NewXmlRunner(fp)
		if err := c.ParseConfig(config.CheckerConfig{"min": min, "max": max}); err != nil {
			return err
		}
		c.EnableCodeQuality(enableCQ)
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	if activateCoverity {
		c := checker.NewCoverity(fp)
		if err := c.ParseConfig(config.CheckerConfig{
			"classification": defaultCoverityClassification(min, max),
		}); err != nil {
			return err
		}
		c.EnableCodeQuality(enableCQ)
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	if activateRobot {
		c := checker.NewRobot(fp)
		cfg := config.CheckerConfig{
			"suites": []any{map[string]any{"name": robotSuiteName, "min": min, "max": max}},
		}
		if err := c.ParseConfig(cfg); err != nil {
			return err
		}
		c.EnableCodeQuality(enableCQ)
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	if regexPattern != "" {
		c := checker.NewRegex(fp)
		if err := c.ParseConfig(config.CheckerConfig{"min": min, "max": max, "regex": regexPattern}); err != nil {
			return err
		}
		c.EnableCodeQuality(enableCQ)
		if err := reg.Activate(c); err != nil {
			return err
		}
	}
	return nil
}

// defaultCoverityClassification applies the same (min, max) pair to every
// recognized classification bucket, for CLI-flag activation where no
// per-classification breakdown is available (that requires --config).
func defaultCoverityClassification(min, max int) map[string]any {
	bucket := map[string]any{"min": min, "max": max}
	return map[string]any{
		"Unclassified":    bucket,
		"Pending":         bucket,
		"Bug":             bucket,
		"Intentional":     bucket,
		"False Positive":  bucket,
	}
}
