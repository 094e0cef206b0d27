// Package dirmerge reconciles business-directory records captured from
// multiple UAE registry portals into a single deduplicated contact list. The
// root package is the orchestration facade: it wires source collaborators to
// one reconciliation pass, in fixed source-priority order, and writes the
// run artifacts. The matching and merging semantics live in pkg/reconciler.
package dirmerge

import (
	"context"
	"os"
	"path/filepath"

	"github.com/agentstation/utc"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/export"
	"github.com/outreachworks/dirmerge/pkg/logging"
	"github.com/outreachworks/dirmerge/pkg/reconciler"
	"github.com/outreachworks/dirmerge/pkg/records"
	"github.com/outreachworks/dirmerge/pkg/sources"
)

// Engine runs one reconciliation pass over a set of source collaborators.
type Engine struct {
	config *config
}

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{config: defaultConfig()}
	for _, opt := range opts {
		if err := opt(e.config); err != nil {
			return nil, err
		}
	}
	if len(e.config.sources) == 0 && e.config.rawDir == "" {
		return nil, errors.NewConfigError("engine", "no sources configured", nil)
	}
	return e, nil
}

// BlockedSource records a source skipped this run because its fetch suspended
// on a human gate. The resume token lets the operator clear the gate and
// re-run.
type BlockedSource struct {
	Source      records.SourceID
	Reason      string
	ResumeToken string
}

// Outcome is the result of one engine run.
type Outcome struct {
	*reconciler.Result

	// Blocked lists sources skipped because they were awaiting an operator
	// signal. The run still completes over the remaining sources.
	Blocked []BlockedSource

	// Stamp is the UTC run stamp used for default artifact names.
	Stamp string

	// OutputPath and SummaryPath are the artifact files written, empty when
	// artifact writing was disabled.
	OutputPath  string
	SummaryPath string
}

// Run fetches every enabled source in priority order, feeds each batch to
// the reconciler in arrival order, and returns the run outcome. Blocked
// sources are skipped and surfaced on the outcome; any other fetch error
// fails the run. Processing is sequential; merge precedence is order
// sensitive, so sources are never fetched concurrently.
func (e *Engine) Run(ctx context.Context) (*Outcome, error) {
	stamp := RunStamp(utc.Now())
	ctx = logging.WithRun(ctx, stamp)
	logger := logging.FromContext(ctx)

	srcs := sources.SortByPriority(e.config.buildSources())

	rec := reconciler.New(e.config.reconcilerOptions...)
	if len(e.config.codes) > 0 {
		rec.Report().ExpectUnits(records.SourceDubaiChamber, e.config.codes)
	}

	outcome := &Outcome{Stamp: stamp}
	for _, src := range srcs {
		sctx := logging.WithSource(ctx, src.ID().String())

		batch, err := src.Fetch(sctx)
		if err != nil {
			var blocked *errors.BlockedError
			if errors.As(err, &blocked) {
				outcome.Blocked = append(outcome.Blocked, BlockedSource{
					Source:      src.ID(),
					Reason:      blocked.Reason,
					ResumeToken: blocked.ResumeToken,
				})
				logger.Warn().
					Str("source", src.ID().String()).
					Str("reason", blocked.Reason).
					Msg("Source blocked, skipping this run")
				continue
			}
			return nil, err
		}

		logger.Info().
			Str("source", src.ID().String()).
			Int("records", batch.Len()).
			Msg("Consuming batch")
		rec.Consume(sctx, batch.Records)
	}

	outcome.Result = rec.Result()

	if e.config.writeArtifacts {
		if err := e.writeArtifacts(outcome); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("canonical", len(outcome.Records)).
		Int("conflicts", len(outcome.Conflicts)).
		Int("blocked", len(outcome.Blocked)).
		Msg("Run complete")
	return outcome, nil
}

// writeArtifacts renders the contact list and the run summary, defaulting
// file names to the run stamp when not configured.
func (e *Engine) writeArtifacts(outcome *Outcome) error {
	outputPath := e.config.outputPath
	if outputPath == "" {
		outputPath = filepath.Join(e.config.outputDir, "companies_"+outcome.Stamp+".csv")
	}
	summaryPath := e.config.summaryPath
	if summaryPath == "" {
		summaryPath = filepath.Join(e.config.outputDir, "summary_"+outcome.Stamp+".yaml")
	}

	if err := export.WriteFile(outputPath, outcome.Records); err != nil {
		return err
	}
	outcome.OutputPath = outputPath

	if err := os.MkdirAll(filepath.Dir(summaryPath), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(summaryPath), err)
	}
	f, err := os.Create(summaryPath)
	if err != nil {
		return errors.WrapIO("create", summaryPath, err)
	}
	defer f.Close()
	if err := outcome.Report.WriteYAML(f); err != nil {
		return errors.WrapIO("write", summaryPath, err)
	}
	outcome.SummaryPath = summaryPath

	return f.Close()
}

// RunStamp formats a run timestamp for artifact names.
func RunStamp(t utc.Time) string {
	return t.Format("20060102T150405Z")
}
