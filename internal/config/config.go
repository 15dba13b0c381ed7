package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/genomewalker/reviewflow/internal/coverage"
	"github.com/genomewalker/reviewflow/internal/depth"
	"github.com/genomewalker/reviewflow/internal/sensitivity"
)

// Config is the top-level configuration for both reviewflow tools.
// Fields map 1:1 to reviewflow.example.yaml.
type Config struct {
	Coverage    CoverageConfig    `yaml:"coverage"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
	Ledger      LedgerConfig      `yaml:"ledger"`
}

// CoverageConfig holds the coverage tool settings.
type CoverageConfig struct {
	// DepthSuffix identifies depth files in the input directory.
	DepthSuffix string `yaml:"depth_suffix"`

	// BreadthCutoff is the minimum breadth_pct for a conservative
	// pass (0-100).
	BreadthCutoff float64 `yaml:"breadth_cutoff"`

	// EvennessCutoff is the minimum coverage evenness for a
	// conservative pass (0-1).
	EvennessCutoff float64 `yaml:"evenness_cutoff"`
}

// SensitivityConfig holds the sensitivity tool settings.
type SensitivityConfig struct {
	// Bits are the bit-score thresholds, one summary row each.
	Bits []int `yaml:"bits"`

	// Evalue is the e-value cutoff applied at every threshold.
	Evalue float64 `yaml:"evalue"`

	// ConsPident is the conservative minimum percent identity (0-100).
	ConsPident float64 `yaml:"cons_pident"`

	// ConsQcov is the conservative minimum query coverage (0-100).
	ConsQcov float64 `yaml:"cons_qcov"`
}

// LedgerConfig configures the optional run provenance ledger.
type LedgerConfig struct {
	// Path is the SQLite database file; empty disables the ledger.
	Path string `yaml:"path"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled from the engine defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		Coverage: CoverageConfig{
			DepthSuffix:    depth.DefaultSuffix,
			BreadthCutoff:  coverage.DefaultBreadthCutoff,
			EvennessCutoff: coverage.DefaultEvennessCutoff,
		},
		Sensitivity: SensitivityConfig{
			Bits:       sensitivity.DefaultBits(),
			Evalue:     sensitivity.DefaultEvalue,
			ConsPident: sensitivity.DefaultConsPident,
			ConsQcov:   sensitivity.DefaultConsQcov,
		},
	}
}

// validate checks value ranges and structural constraints.
func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Coverage.DepthSuffix, ".") {
		return fmt.Errorf("coverage.depth_suffix must start with a dot")
	}
	if cfg.Coverage.BreadthCutoff < 0 || cfg.Coverage.BreadthCutoff > 100 {
		return fmt.Errorf("coverage.breadth_cutoff must be in [0, 100]")
	}
	if cfg.Coverage.EvennessCutoff < 0 || cfg.Coverage.EvennessCutoff > 1 {
		return fmt.Errorf("coverage.evenness_cutoff must be in [0, 1]")
	}
	if len(cfg.Sensitivity.Bits) == 0 {
		return fmt.Errorf("sensitivity.bits must list at least one threshold")
	}
	if cfg.Sensitivity.Evalue < 0 {
		return fmt.Errorf("sensitivity.evalue must be non-negative")
	}
	if cfg.Sensitivity.ConsPident < 0 || cfg.Sensitivity.ConsPident > 100 {
		return fmt.Errorf("sensitivity.cons_pident must be in [0, 100]")
	}
	if cfg.Sensitivity.ConsQcov < 0 || cfg.Sensitivity.ConsQcov > 100 {
		return fmt.Errorf("sensitivity.cons_qcov must be in [0, 100]")
	}
	return nil
}
