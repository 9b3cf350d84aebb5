package webapp

import (
	"fmt"

	"github.com/pelletier/go-toml"
)

// Settings holds the configuration values of an App. The keys with built-in meaning
// are "HOST" and "PORT" (where Serve listens), "SECRET_KEY" (session signing key)
// and "TESTING"; applications are free to store anything else alongside them.
type Settings map[string]interface{}

func (s Settings) String(key, fallback string) string {
	if v, ok := s[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
		return fmt.Sprintf("%v", v)
	}
	return fallback
}

// Int reads an integer setting. Values parsed from TOML arrive as int64, so all
// numeric types are accepted.
func (s Settings) Int(key string, fallback int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func (s Settings) Bool(key string, fallback bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return fallback
}

// Merged returns a copy of s with the values of overrides laid on top.
func (s Settings) Merged(overrides Settings) Settings {
	merged := make(Settings, len(s)+len(overrides))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// LoadSettings reads settings from a TOML file.
func LoadSettings(path string) (Settings, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load settings from %s: %w", path, err)
	}
	return Settings(tree.ToMap()), nil
}
