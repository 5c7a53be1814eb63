package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"promptmap/internal/tree"
)

const (
	configDirName  = "promptmap"
	configFileName = "config.yaml"
)

func DefaultConfig() Config {
	return Config{
		Path:          ".",
		ShowHidden:    false,
		TokenCap:      128000,
		MaxFileSizeKB: 512,
		ExcludePatterns: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/dist/**",
			"**/build/**",
			"**/vendor/**",
			"*.lock",
			"package-lock.json",
			"yarn.lock",
			"pnpm-lock.yaml",
		},
		Theme:  "dark",
		Format: tree.DefaultOptions(),
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// LoadConfig reads the stored config and merges it over the defaults.
// A missing file is not an error; a malformed one surfaces the parse
// error with the defaults intact.
func LoadConfig() (Config, error) {
	config := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	var stored fileConfig
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return config, err
	}
	return mergeConfig(config, stored), nil
}

func SaveConfig(config Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.Path != nil {
		merged.Path = *stored.Path
	}
	if stored.ShowHidden != nil {
		merged.ShowHidden = *stored.ShowHidden
	}
	if stored.TokenCap != nil {
		merged.TokenCap = *stored.TokenCap
	}
	if stored.MaxFileSizeKB != nil {
		merged.MaxFileSizeKB = *stored.MaxFileSizeKB
	}
	if stored.ExcludePatterns != nil {
		merged.ExcludePatterns = stored.ExcludePatterns
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.Format != nil {
		merged.Format = *stored.Format
	}
	return merged
}
