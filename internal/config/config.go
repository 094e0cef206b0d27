// Package config loads run configuration for the dirmerge CLI. The engine
// itself takes no configuration beyond the fixed source-priority table; what
// lives here are the orchestration knobs (paths, enabled sources) and the
// portal-specific structures (keyword lists, code lists, selector hints) that
// belong to the collaborator boundary.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// Config is the run configuration.
type Config struct {
	// RawDir is the root of the captured batch tree (raw/<source>/*.csv).
	RawDir string `mapstructure:"raw_dir"`

	// OutputPath is the reconciled contact-list file. When empty the run
	// writes output/companies_<runstamp>.csv.
	OutputPath string `mapstructure:"output_path"`

	// SummaryPath is the run-summary YAML file. When empty the run writes
	// output/summary_<runstamp>.yaml.
	SummaryPath string `mapstructure:"summary_path"`

	// CodesFile lists the activity codes queried against the coded
	// registry; units missing from the run are flagged in the summary.
	CodesFile string `mapstructure:"codes_file"`

	// PortalsFile points at the portal config (keywords, selectors) used
	// by the fetch collaborators.
	PortalsFile string `mapstructure:"portals_file"`

	// Sources restricts the run to a subset of registries. Empty means
	// all four, in priority order.
	Sources []string `mapstructure:"sources"`
}

// Defaults used when the config file leaves fields unset.
const (
	DefaultRawDir = "raw"
)

// Load reads the configuration through viper. path may be empty, in which
// case only defaults, bound flags and environment variables apply.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("raw_dir", DefaultRawDir)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("run", "unmarshaling configuration", err)
	}
	return &cfg, nil
}

// SourceIDs resolves the configured source names to IDs in priority order.
// Unknown names are rejected so a typo cannot silently drop a registry.
func (c *Config) SourceIDs() ([]records.SourceID, error) {
	if len(c.Sources) == 0 {
		return records.SourceIDs(), nil
	}

	enabled := make(map[records.SourceID]bool, len(c.Sources))
	for _, name := range c.Sources {
		id := records.SourceID(strings.TrimSpace(name))
		if !id.IsValid() {
			return nil, errors.NewConfigError("sources", "unknown source "+name, nil)
		}
		enabled[id] = true
	}

	var ids []records.SourceID
	for _, id := range records.SourceIDs() {
		if enabled[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
