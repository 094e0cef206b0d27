// Package reconciler implements the reconciliation engine: it consumes raw
// directory records batch by batch, resolves each one against the candidate
// index through ordered key strategies, and folds matches into canonical
// records under a deterministic source-precedence policy. Processing is
// single-threaded and sequential by design; merge precedence is order
// sensitive, so reproducibility requires a total order over all inputs.
package reconciler

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/index"
	"github.com/outreachworks/dirmerge/pkg/logging"
	"github.com/outreachworks/dirmerge/pkg/normalize"
	"github.com/outreachworks/dirmerge/pkg/provenance"
	"github.com/outreachworks/dirmerge/pkg/records"
	"github.com/outreachworks/dirmerge/pkg/report"
)

// signature identifies an exact duplicate: a record identical across every
// key field to one already consumed. Such rows are dropped outright, before
// matching.
type signature struct {
	nameKey      string
	emailKey     string
	phoneKey     string
	activity     string
	source       records.SourceID
	activityCode string
	sourceURL    string
	emirate      string
}

// Reconciler runs one reconciliation pass. It owns the candidate index and
// is the single logical writer to it; batches must be fed in source priority
// order, records in arrival order within each batch.
type Reconciler struct {
	idx       *index.Index
	matcher   *matcher
	merger    *merger
	report    *report.Report
	tracker   provenance.Tracker
	seen      map[signature]struct{}
	conflicts []Conflict
	finalized bool
}

// New creates a Reconciler with options.
func New(opts ...Option) *Reconciler {
	options := newOptions(opts...)

	idx := index.New()
	return &Reconciler{
		idx:     idx,
		matcher: newMatcher(idx),
		merger:  newMerger(idx, options.authorities, options.tracker),
		report:  options.report,
		tracker: options.tracker,
		seen:    make(map[signature]struct{}),
	}
}

// Consume processes one source batch in arrival order. A bad record degrades
// to rejected-and-counted; nothing in a batch is fatal to the run.
func (r *Reconciler) Consume(ctx context.Context, batch []records.RawRecord) {
	logger := logging.FromContext(ctx)
	for i := range batch {
		r.process(logger.With().Int("row", i).Logger(), &batch[i])
	}
}

// process runs one raw record through normalize, match, merge, and tally.
func (r *Reconciler) process(logger zerolog.Logger, raw *records.RawRecord) {
	// Malformed input: missing company name or source is rejected, counted
	// and skipped. Never inserted or merged.
	if strings.TrimSpace(raw.CompanyName) == "" || !raw.Source.IsValid() {
		r.report.CountRejected()
		logger.Warn().
			Str("source", raw.Source.String()).
			Msg("Rejected malformed record")
		return
	}

	id := normalize.Record(raw)

	sig := signature{
		nameKey:      id.NameKey,
		emailKey:     id.PrimaryEmail,
		phoneKey:     id.PhoneKey,
		activity:     strings.ToLower(normalize.CollapseSpace(raw.BusinessActivity)),
		source:       raw.Source,
		activityCode: strings.ToLower(strings.TrimSpace(raw.ActivityCode)),
		sourceURL:    strings.ToLower(strings.TrimSpace(raw.SourceURL)),
		emirate:      index.EmirateKey(raw.Emirate),
	}
	if _, dup := r.seen[sig]; dup {
		r.report.CountExactDuplicate()
		return
	}
	r.seen[sig] = struct{}{}

	r.report.CountRecord(raw.Source, r.queryUnit(raw))
	for _, note := range id.Notes {
		switch note {
		case records.NoteEmailInvalidRemoved:
			r.report.CountInvalidEmail()
		case records.NotePhoneInvalidRemoved:
			r.report.CountInvalidPhone()
		}
	}

	match, err := r.matcher.match(id, raw)
	if err != nil {
		// Conflicting identity signals: hold the record out of automatic
		// merging for operator review rather than guessing.
		r.conflicts = append(r.conflicts, Conflict{Record: *raw, Err: err})
		r.report.CountAmbiguous()
		logger.Warn().Err(err).Msg("Held ambiguous record out of merging")
		return
	}

	if match == nil {
		if _, err := r.merger.insert(raw, id); err != nil {
			r.conflicts = append(r.conflicts, Conflict{Record: *raw, Err: err})
			r.report.CountAmbiguous()
			logger.Warn().Err(err).Msg("Held conflicting record out of merging")
			return
		}
		r.report.CountNew()
		return
	}

	if err := r.merger.merge(match.Record, raw, id, match.Tier); err != nil {
		r.conflicts = append(r.conflicts, Conflict{Record: *raw, Err: err})
		r.report.CountAmbiguous()
		logger.Warn().Err(err).Msg("Merge raised a plane conflict")
		return
	}
	r.report.CountMerge(report.Tier(match.Tier))
}

// queryUnit returns the per-unit tally key for a record: the activity code
// for the coded registry, nothing for the keyword and manual sources.
func (r *Reconciler) queryUnit(raw *records.RawRecord) string {
	if raw.Source != records.SourceDubaiChamber {
		return ""
	}
	return strings.TrimSpace(raw.ActivityCode)
}

// Result finalizes the run and returns the output set in first-seen order,
// the held-out conflicts, and the populated report. Calling it more than
// once returns the same finalized data.
func (r *Reconciler) Result() *Result {
	if !r.finalized {
		for _, c := range r.idx.Records() {
			if !c.HasContact() {
				c.Notes.Add(records.NoteNoContactInfo)
				r.report.CountNoContact()
			}
		}
		r.report.Finalize()
		r.finalized = true
	}

	return &Result{
		Records:    r.idx.Records(),
		Conflicts:  r.conflicts,
		Report:     r.report,
		Provenance: r.tracker.Map(),
	}
}

// Report exposes the run report for callers that register expectations, such
// as the activity-code list driving zero-result flags.
func (r *Reconciler) Report() *report.Report {
	return r.report
}

// Ambiguity checks for callers inspecting conflicts.
var (
	// IsAmbiguous reports whether a conflict error is an ambiguous match.
	IsAmbiguous = errors.IsAmbiguous
)
