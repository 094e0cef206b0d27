package dirmerge

import (
	"path/filepath"

	"github.com/outreachworks/dirmerge/pkg/reconciler"
	"github.com/outreachworks/dirmerge/pkg/records"
	"github.com/outreachworks/dirmerge/pkg/sources"
	"github.com/outreachworks/dirmerge/pkg/sources/localdir"
)

// config holds the orchestration knobs for an Engine.
type config struct {
	sources   []sources.Source
	rawDir    string
	sourceIDs []records.SourceID

	codes []string

	writeArtifacts bool
	outputDir      string
	outputPath     string
	summaryPath    string

	reconcilerOptions []reconciler.Option
}

func defaultConfig() *config {
	return &config{
		sourceIDs:      records.SourceIDs(),
		writeArtifacts: true,
		outputDir:      "output",
	}
}

// buildSources resolves the configured collaborators. Explicit sources win;
// otherwise each enabled registry replays its capture directory under the
// raw tree.
func (c *config) buildSources() []sources.Source {
	if len(c.sources) > 0 {
		return append([]sources.Source(nil), c.sources...)
	}

	srcs := make([]sources.Source, 0, len(c.sourceIDs))
	for _, id := range c.sourceIDs {
		srcs = append(srcs, localdir.New(id, filepath.Join(c.rawDir, id.String())))
	}
	return srcs
}

// Option configures an Engine.
type Option func(*config) error

// WithSources supplies explicit source collaborators, overriding the raw
// directory replay sources.
func WithSources(srcs ...sources.Source) Option {
	return func(c *config) error {
		c.sources = append(c.sources, srcs...)
		return nil
	}
}

// WithRawDir points the engine at a capture tree (raw/<source>/*.csv) to
// replay.
func WithRawDir(dir string) Option {
	return func(c *config) error {
		c.rawDir = dir
		return nil
	}
}

// WithSourceIDs restricts a raw-directory run to a subset of registries. The
// fixed priority order still applies.
func WithSourceIDs(ids ...records.SourceID) Option {
	return func(c *config) error {
		c.sourceIDs = ids
		return nil
	}
}

// WithCodes registers the activity codes queried against the coded registry;
// codes that yield no records are flagged in the run summary.
func WithCodes(codes []string) Option {
	return func(c *config) error {
		c.codes = codes
		return nil
	}
}

// WithOutputDir sets the directory for run-stamped artifacts.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		c.outputDir = dir
		return nil
	}
}

// WithOutputPath pins the contact-list file name instead of the run-stamped
// default.
func WithOutputPath(path string) Option {
	return func(c *config) error {
		c.outputPath = path
		return nil
	}
}

// WithSummaryPath pins the run-summary file name instead of the run-stamped
// default.
func WithSummaryPath(path string) Option {
	return func(c *config) error {
		c.summaryPath = path
		return nil
	}
}

// WithoutArtifacts disables artifact writing; the outcome still carries the
// full result set and report.
func WithoutArtifacts() Option {
	return func(c *config) error {
		c.writeArtifacts = false
		return nil
	}
}

// WithReconcilerOptions passes options through to the underlying reconciler,
// for callers supplying their own authority table or provenance tracker.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconcilerOptions = append(c.reconcilerOptions, opts...)
		return nil
	}
}
