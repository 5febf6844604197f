package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/nnat.yaml
var defaultYAML []byte

// Load reads the game configuration.
// Search order: customPath -> ~/.nnat/config.yaml -> ./configs/nnat.yaml -> embedded default.
// A customPath that cannot be read or parsed is an error; the fallback
// locations are silently skipped when unusable.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		return parse(data, customPath)
	}

	if userPath := userConfigPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if cfg, err := parse(data, userPath); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/nnat.yaml"); err == nil {
		if cfg, err := parse(data, "configs/nnat.yaml"); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parse(defaultYAML, "embedded default")
	if err != nil {
		// Embedded yaml should never be broken; fall back to the
		// hardcoded defaults if it somehow is.
		return Default(), nil
	}
	return cfg, nil
}

func parse(data []byte, source string) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", source, err)
	}
	return cfg, nil
}

// userConfigPath returns the per-user config file, or empty if home is
// unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nnat", "config.yaml")
}
