package strategy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/growthroom/growthbrief/internal/scoring"
)

// Load reads a strategy YAML file and returns the parsed Config with the
// raw bytes. KnownFields(true) makes a typo or stale field fail the load
// instead of silently falling back to a default.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// Hash generates a SHA-256 hash of the canonical JSON form of the config.
// Structs rather than maps keep the field order, and so the hash, stable.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewDecisionSnapshot captures the config alongside its hash for audit
func NewDecisionSnapshot(cfg *Config, yamlData []byte) (*DecisionSnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &DecisionSnapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		StrategyID: cfg.Meta.StrategyID,
		CreatedAt:  time.Now(),
	}, nil
}

// ToScoringConfig converts the YAML weights into the scorer's runtime
// configuration. Feature membership and directions stay code-defined;
// only weights and the winsorize band come from the file.
func (c *Config) ToScoringConfig() scoring.Config {
	out := scoring.DefaultConfig()
	out.WinsorizeLowerPct = c.Scoring.Winsorize.LowerPct
	out.WinsorizeUpperPct = c.Scoring.Winsorize.UpperPct

	weights := map[string]int{
		"FM": c.Scoring.WeightsPct.FundamentalsMomentum,
		"Q":  c.Scoring.WeightsPct.Quality,
		"VG": c.Scoring.WeightsPct.ValuationGrowth,
		"IT": c.Scoring.WeightsPct.IndustryTailwind,
		"TC": c.Scoring.WeightsPct.TechnicalConfirmation,
	}
	for i := range out.Categories {
		if pct, ok := weights[string(out.Categories[i].Category)]; ok {
			out.Categories[i].Weight = float64(pct) / 100.0
		}
	}

	return out
}
