// Package report accumulates run-level validation counters: per-source
// ingestion tallies, per-query-unit coverage with zero-result flags, merge
// tier counts, and the error taxonomy counters. A Report is owned by the
// orchestrating run and passed by reference into the engine; it is never
// ambient global state.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/outreachworks/dirmerge/pkg/records"
)

// Tier labels a match quality class.
type Tier string

// Strong matches share an email or phone; fallback matches share only the
// name and emirate.
const (
	TierStrong   Tier = "strong"
	TierFallback Tier = "fallback"
)

// Report is the run-wide counter context. It is not safe for concurrent use;
// the engine is a single logical writer.
type Report struct {
	StartedAt utc.Time
	EndedAt   utc.Time

	sourceCounts map[records.SourceID]int
	unitCounts   map[records.SourceID]map[string]int
	expected     map[records.SourceID][]string

	merges        map[Tier]int
	newRecords    int
	rejected      int
	exactDupes    int
	ambiguous     int
	noContact     int
	invalidEmails int
	invalidPhones int
}

// New creates an empty report stamped with the current time.
func New() *Report {
	return &Report{
		StartedAt:    utc.Now(),
		sourceCounts: make(map[records.SourceID]int),
		unitCounts:   make(map[records.SourceID]map[string]int),
		expected:     make(map[records.SourceID][]string),
		merges:       make(map[Tier]int),
	}
}

// ExpectUnits declares the query units a source was asked to run, e.g. the
// activity-code list for the coded registry. Units that end the run with a
// zero count are flagged in the summary.
func (r *Report) ExpectUnits(source records.SourceID, units []string) {
	r.expected[source] = append(r.expected[source], units...)
}

// CountRecord tallies one ingested raw record and its query unit, if any.
func (r *Report) CountRecord(source records.SourceID, unit string) {
	r.sourceCounts[source]++
	if unit == "" {
		return
	}
	if r.unitCounts[source] == nil {
		r.unitCounts[source] = make(map[string]int)
	}
	r.unitCounts[source][unit]++
}

// CountMerge tallies one merge by tier.
func (r *Report) CountMerge(tier Tier) {
	r.merges[tier]++
}

// CountNew tallies one newly created canonical record.
func (r *Report) CountNew() {
	r.newRecords++
}

// CountRejected tallies one malformed record that was rejected and skipped.
func (r *Report) CountRejected() {
	r.rejected++
}

// CountExactDuplicate tallies one dropped exact duplicate.
func (r *Report) CountExactDuplicate() {
	r.exactDupes++
}

// CountAmbiguous tallies one record held out of merging for operator review.
func (r *Report) CountAmbiguous() {
	r.ambiguous++
}

// CountNoContact tallies one canonical record that finished the run with
// neither phone nor email.
func (r *Report) CountNoContact() {
	r.noContact++
}

// CountInvalidEmail tallies one displayed email dropped by validation.
func (r *Report) CountInvalidEmail() {
	r.invalidEmails++
}

// CountInvalidPhone tallies one displayed phone dropped by validation.
func (r *Report) CountInvalidPhone() {
	r.invalidPhones++
}

// Finalize stamps the end time.
func (r *Report) Finalize() {
	r.EndedAt = utc.Now()
}

// SourceCount returns the ingested count for a source.
func (r *Report) SourceCount(source records.SourceID) int {
	return r.sourceCounts[source]
}

// UnitCount returns the ingested count for one query unit of a source.
func (r *Report) UnitCount(source records.SourceID, unit string) int {
	return r.unitCounts[source][unit]
}

// Merges returns the merge count for a tier.
func (r *Report) Merges(tier Tier) int {
	return r.merges[tier]
}

// NewRecords returns the count of canonical records created.
func (r *Report) NewRecords() int { return r.newRecords }

// Rejected returns the count of rejected malformed records.
func (r *Report) Rejected() int { return r.rejected }

// ExactDuplicates returns the count of dropped exact duplicates.
func (r *Report) ExactDuplicates() int { return r.exactDupes }

// Ambiguous returns the count of records held out for operator review.
func (r *Report) Ambiguous() int { return r.ambiguous }

// NoContact returns the count of contactless canonical records.
func (r *Report) NoContact() int { return r.noContact }

// ZeroUnit describes a query unit that yielded no records.
type ZeroUnit struct {
	Source records.SourceID `yaml:"source"`
	Unit   string           `yaml:"unit"`
}

// ZeroUnits returns every expected query unit that ended the run without a
// single record. This signals an upstream scraping or filter failure, not a
// merge problem.
func (r *Report) ZeroUnits() []ZeroUnit {
	var zeros []ZeroUnit
	for _, source := range records.SourceIDs() {
		for _, unit := range r.expected[source] {
			if r.unitCounts[source][unit] == 0 {
				zeros = append(zeros, ZeroUnit{Source: source, Unit: unit})
			}
		}
	}
	return zeros
}

// Summary renders the human-readable run summary.
func (r *Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run summary (%s - %s)\n", r.StartedAt.Format("2006-01-02T15:04:05Z"), r.EndedAt.Format("2006-01-02T15:04:05Z"))

	b.WriteString("\nRecords ingested per source:\n")
	for _, source := range records.SourceIDs() {
		fmt.Fprintf(&b, "  %-20s %d\n", source, r.sourceCounts[source])
	}

	if len(r.unitCounts) > 0 {
		b.WriteString("\nRecords per query unit:\n")
		for _, source := range records.SourceIDs() {
			units := r.unitCounts[source]
			if len(units) == 0 {
				continue
			}
			names := make([]string, 0, len(units))
			for unit := range units {
				names = append(names, unit)
			}
			sort.Strings(names)
			for _, unit := range names {
				fmt.Fprintf(&b, "  %s/%-12s %d\n", source, unit, units[unit])
			}
		}
	}

	if zeros := r.ZeroUnits(); len(zeros) > 0 {
		b.WriteString("\nZero-result query units (verify portal availability or update selectors):\n")
		for _, z := range zeros {
			fmt.Fprintf(&b, "  %s/%s\n", z.Source, z.Unit)
		}
	}

	b.WriteString("\nMerges:\n")
	fmt.Fprintf(&b, "  new canonical records  %d\n", r.newRecords)
	fmt.Fprintf(&b, "  strong-tier merges     %d\n", r.merges[TierStrong])
	fmt.Fprintf(&b, "  fallback-tier merges   %d\n", r.merges[TierFallback])

	b.WriteString("\nValidation:\n")
	fmt.Fprintf(&b, "  rejected malformed     %d\n", r.rejected)
	fmt.Fprintf(&b, "  exact duplicates       %d\n", r.exactDupes)
	fmt.Fprintf(&b, "  ambiguous (held out)   %d\n", r.ambiguous)
	fmt.Fprintf(&b, "  invalid emails dropped %d\n", r.invalidEmails)
	fmt.Fprintf(&b, "  invalid phones dropped %d\n", r.invalidPhones)
	fmt.Fprintf(&b, "  records w/o contact    %d\n", r.noContact)

	return b.String()
}

// snapshot is the YAML shape of the report.
type snapshot struct {
	StartedAt     utc.Time                  `yaml:"started_at"`
	EndedAt       utc.Time                  `yaml:"ended_at"`
	Sources       yaml.MapSlice             `yaml:"sources"`
	Units         map[string]map[string]int `yaml:"units,omitempty"`
	ZeroUnits     []ZeroUnit                `yaml:"zero_units,omitempty"`
	NewRecords    int                       `yaml:"new_records"`
	StrongMerges  int                       `yaml:"strong_merges"`
	Fallback      int                       `yaml:"fallback_merges"`
	Rejected      int                       `yaml:"rejected"`
	ExactDupes    int                       `yaml:"exact_duplicates"`
	Ambiguous     int                       `yaml:"ambiguous"`
	InvalidEmails int                       `yaml:"invalid_emails"`
	InvalidPhones int                       `yaml:"invalid_phones"`
	NoContact     int                       `yaml:"no_contact"`
}

// WriteYAML writes the structured report.
func (r *Report) WriteYAML(w io.Writer) error {
	snap := snapshot{
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		ZeroUnits:     r.ZeroUnits(),
		NewRecords:    r.newRecords,
		StrongMerges:  r.merges[TierStrong],
		Fallback:      r.merges[TierFallback],
		Rejected:      r.rejected,
		ExactDupes:    r.exactDupes,
		Ambiguous:     r.ambiguous,
		InvalidEmails: r.invalidEmails,
		InvalidPhones: r.invalidPhones,
		NoContact:     r.noContact,
	}

	for _, source := range records.SourceIDs() {
		snap.Sources = append(snap.Sources, yaml.MapItem{Key: source.String(), Value: r.sourceCounts[source]})
	}
	if len(r.unitCounts) > 0 {
		snap.Units = make(map[string]map[string]int, len(r.unitCounts))
		for source, units := range r.unitCounts {
			snap.Units[source.String()] = units
		}
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
