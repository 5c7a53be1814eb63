package config

import "promptmap/internal/tree"

type Config struct {
	Path            string             `yaml:"path"`
	ShowHidden      bool               `yaml:"show_hidden"`
	TokenCap        uint64             `yaml:"token_cap"`
	MaxFileSizeKB   int64              `yaml:"max_file_size_kb"`
	ExcludePatterns []string           `yaml:"exclude_patterns"`
	Theme           string             `yaml:"theme"`
	Format          tree.FormatOptions `yaml:"format"`
}

// fileConfig mirrors Config with pointer fields so an absent key in
// the stored file falls back to the default instead of the zero value.
type fileConfig struct {
	Path            *string             `yaml:"path"`
	ShowHidden      *bool               `yaml:"show_hidden"`
	TokenCap        *uint64             `yaml:"token_cap"`
	MaxFileSizeKB   *int64              `yaml:"max_file_size_kb"`
	ExcludePatterns []string            `yaml:"exclude_patterns"`
	Theme           *string             `yaml:"theme"`
	Format          *tree.FormatOptions `yaml:"format"`
}
