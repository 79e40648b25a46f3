// Package config loads the checker configuration file and resolves
// environment-variable references within it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// defaultPath is used when --config is not supplied; its absence is not an
// error, unlike an explicitly named path that cannot be read.
const defaultPath = ".warngate.yml"

// CheckerConfig is the per-checker block of the configuration file: a loose
// map so that checker-specific keys (classification, suites, checks) pass
// through untouched to the checker that knows how to interpret them.
type CheckerConfig map[string]any

// Config is the top-level configuration file, keyed by checker name
// (sphinx, doxygen, xmlrunner, coverity, polyspace, robot, regex).
type Config map[string]CheckerConfig

// Load reads and parses the configuration file at path. An empty path
// checks the default location and returns an empty Config if it doesn't
// exist; an explicitly supplied path that doesn't exist is a read error.
// YAML is assumed unless the extension is .json.
func Load(path string) (Config, error) {
	useDefault := path == ""
	if useDefault {
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && useDefault {
			return Config{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Config{}
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ToInt coerces a config value (int, float64 from JSON numbers, or string —
// possibly after environment-variable substitution) into an int.
func ToInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("config: %q is not an integer: %w", t, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("config: value %v is not an integer", v)
	}
}

// ToStringSlice coerces a config value into a []string, as produced by
// either YAML or JSON unmarshalling of a list key such as "exclude".
func ToStringSlice(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("config: expected a list, got %T", v)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("config: expected a list of strings, got %T element", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// ToMapSlice coerces a config value into a slice of nested maps, as used by
// the robot "suites" and polyspace "checks" keys.
func ToMapSlice(v any) ([]map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("config: expected a list, got %T", v)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			// YAML unmarshals nested maps as map[string]any directly when the
			// target is `any`; yaml.v3 uses map[string]any too, so this branch
			// is defensive for alternate decoders.
			converted, ok2 := item.(map[any]any)
			if !ok2 {
				return nil, fmt.Errorf("config: expected a list of maps, got %T element", item)
			}
			m = make(map[string]any, len(converted))
			for k, val := range converted {
				m[fmt.Sprint(k)] = val
			}
		}
		out = append(out, m)
	}
	return out, nil
}
