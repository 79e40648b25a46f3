package config

import (
	"os"
	"strings"
	"unicode"

	"github.com/warngate/warngate/pkg/warnerr"
)

// Substitute expands $VAR and ${VAR} references in s against the process
// environment, and unescapes the literal $$ sigil to a single $. It fails
// closed: a reference to an undefined variable returns a *warnerr.ConfigError
// naming the variable, mirroring the original implementation's
// string.Template-based substitute_envvar.
func Substitute(s string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' {
			out.WriteByte(c)
			continue
		}

		if i+1 < len(s) && s[i+1] == '$' {
			out.WriteByte('$')
			i++
			continue
		}

		if i+1 < len(s) && s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				out.WriteString(s[i:])
				break
			}
			name := s[i+2 : i+2+end]
			val, ok := os.LookupEnv(name)
			if !ok {
				return "", &warnerr.ConfigError{
					Key: name,
					Msg: "Failed to find environment variable " + name,
				}
			}
			out.WriteString(val)
			i += 2 + end
			continue
		}

		j := i + 1
		for j < len(s) && isIdentByte(s[j]) {
			j++
		}
		if j == i+1 {
			// Lone '$' with nothing identifier-like following: keep it literal.
			out.WriteByte('$')
			continue
		}
		name := s[i+1 : j]
		val, ok := os.LookupEnv(name)
		if !ok {
			return "", &warnerr.ConfigError{
				Key: name,
				Msg: "Failed to find environment variable " + name,
			}
		}
		out.WriteString(val)
		i = j - 1
	}
	return out.String(), nil
}

func isIdentByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

// SubstituteKeys walks the given keys of cfg in place, running Substitute
// over any string value found. Non-string values and absent keys are left
// untouched, matching the original's substitute_envvar(checker_config, keys).
// A missing variable yields a *warnerr.ConfigError whose Key is the config
// key and whose message names the variable.
func SubstituteKeys(cfg map[string]any, keys ...string) error {
	for _, key := range keys {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		substituted, err := Substitute(s)
		if err != nil {
			if ce, ok := err.(*warnerr.ConfigError); ok {
				ce.Key = key
			}
			return err
		}
		cfg[key] = substituted
	}
	return nil
}
