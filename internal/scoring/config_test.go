package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthroom/growthbrief/internal/contracts"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	weights := make(map[contracts.Category]float64)
	for _, cat := range cfg.Categories {
		weights[cat.Category] = cat.Weight
	}

	assert.Equal(t, 0.30, weights[contracts.CategoryFM])
	assert.Equal(t, 0.20, weights[contracts.CategoryQ])
	assert.Equal(t, 0.20, weights[contracts.CategoryVG])
	assert.Equal(t, 0.15, weights[contracts.CategoryIT])
	assert.Equal(t, 0.15, weights[contracts.CategoryTC])
}

func TestDefaultConfigCoversVocabulary(t *testing.T) {
	configured := make(map[contracts.Feature]bool)
	for _, cat := range DefaultConfig().Categories {
		for _, f := range cat.Features {
			assert.False(t, configured[f.Name], "feature %q configured twice", f.Name)
			configured[f.Name] = true
		}
	}

	for _, name := range contracts.KnownFeatures() {
		assert.True(t, configured[name], "feature %q missing from default config", name)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no categories", func(c *Config) { c.Categories = nil }},
		{"inverted winsorize band", func(c *Config) { c.WinsorizeLowerPct = 99; c.WinsorizeUpperPct = 1 }},
		{"negative lower percentile", func(c *Config) { c.WinsorizeLowerPct = -1 }},
		{"upper percentile above 100", func(c *Config) { c.WinsorizeUpperPct = 101 }},
		{"duplicate category", func(c *Config) { c.Categories[1].Category = c.Categories[0].Category }},
		{"negative weight", func(c *Config) { c.Categories[0].Weight = -0.30 }},
		{"empty feature list", func(c *Config) { c.Categories[2].Features = nil }},
		{"unknown feature", func(c *Config) { c.Categories[0].Features[0].Name = "nonsense" }},
		{"invalid direction", func(c *Config) { c.Categories[0].Features[0].Direction = 0 }},
		{"weight sum off", func(c *Config) { c.Categories[4].Weight = 0.40 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
