// Package sources defines the boundary between the reconciliation engine and
// the portal collaborators that fetch raw records. How a collaborator obtains
// its records (browser automation, pagination, authenticated sessions) is
// irrelevant here; it only has to emit complete batches in the input shape.
//
// Collaborators that hit a human-in-the-loop gate (challenge pages, manual
// logins) suspend by returning a BlockedError carrying a resume token. The
// engine never represents a paused control flow; it only consumes batches
// from sources that completed their fetch.
package sources

import (
	"context"
	"slices"

	"github.com/outreachworks/dirmerge/pkg/records"
)

// Batch is an ordered sequence of raw records captured from one source. The
// order is the arrival order and must be preserved into the engine.
type Batch struct {
	Source  records.SourceID
	Records []records.RawRecord
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	return len(b.Records)
}

// Source is one portal collaborator.
type Source interface {
	// ID returns the source tag stamped on every record of this source.
	ID() records.SourceID

	// Fetch retrieves the source's complete batch. It returns a
	// BlockedError when the portal is gated behind an external signal;
	// the same fetch can be retried once the operator resolves the gate.
	Fetch(ctx context.Context) (*Batch, error)
}

// SortByPriority orders sources by the fixed source-priority table, most
// trusted first. Feeding batches in this order is what makes merge results
// reproducible across runs.
func SortByPriority(srcs []Source) []Source {
	sorted := slices.Clone(srcs)
	slices.SortStableFunc(sorted, func(a, b Source) int {
		return a.ID().Rank() - b.ID().Rank()
	})
	return sorted
}
