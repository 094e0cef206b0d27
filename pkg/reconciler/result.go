package reconciler

import (
	"fmt"

	"github.com/outreachworks/dirmerge/pkg/provenance"
	"github.com/outreachworks/dirmerge/pkg/records"
	"github.com/outreachworks/dirmerge/pkg/report"
)

// Conflict is a raw record held out of automatic merging because its
// identity signals pointed at two different canonical records. It requires
// operator review; the engine never guesses.
type Conflict struct {
	Record records.RawRecord
	Err    error
}

// Result is the outcome of one reconciliation run.
type Result struct {
	// Records holds the reconciled output set in first-seen order.
	Records []*records.CanonicalRecord

	// Conflicts holds the records excluded from merging for review.
	Conflicts []Conflict

	// Report carries the run-level validation counters.
	Report *report.Report

	// Provenance maps "recordID:field" to the decision history that
	// produced each contact-field value.
	Provenance provenance.Map
}

// IsClean returns true when no records were held out for review.
func (r *Result) IsClean() bool {
	return len(r.Conflicts) == 0
}

// Summary returns a short human-readable description of the run.
func (r *Result) Summary() string {
	if len(r.Conflicts) > 0 {
		return fmt.Sprintf("Reconciled %d canonical records; %d records held out for review", len(r.Records), len(r.Conflicts))
	}
	return fmt.Sprintf("Reconciled %d canonical records", len(r.Records))
}
