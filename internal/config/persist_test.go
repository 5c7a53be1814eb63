package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"

	"promptmap/internal/domain"
)

func TestMergeConfigKeepsDefaultsForAbsentKeys(t *testing.T) {
	base := DefaultConfig()
	merged := mergeConfig(base, fileConfig{})
	assert.Equal(t, base, merged)
}

func TestMergeConfigOverridesPresentKeys(t *testing.T) {
	base := DefaultConfig()
	path := "/work/repo"
	hidden := true
	cap := uint64(4000)
	merged := mergeConfig(base, fileConfig{
		Path:            &path,
		ShowHidden:      &hidden,
		TokenCap:        &cap,
		ExcludePatterns: []string{"*.tmp"},
	})
	assert.Equal(t, "/work/repo", merged.Path)
	assert.True(t, merged.ShowHidden)
	assert.Equal(t, uint64(4000), merged.TokenCap)
	assert.Equal(t, []string{"*.tmp"}, merged.ExcludePatterns)
	// untouched keys keep their defaults
	assert.Equal(t, base.MaxFileSizeKB, merged.MaxFileSizeKB)
	assert.Equal(t, base.Format, merged.Format)
}

func TestPartialYamlFallsBackPerKey(t *testing.T) {
	data := []byte("token_cap: 9000\nshow_hidden: true\n")
	var stored fileConfig
	require.NoError(t, yaml.Unmarshal(data, &stored))

	merged := mergeConfig(DefaultConfig(), stored)
	assert.Equal(t, uint64(9000), merged.TokenCap)
	assert.True(t, merged.ShowHidden)
	assert.Equal(t, ".", merged.Path)
	assert.Equal(t, domain.SortByName, merged.Format.SortBy)
}
