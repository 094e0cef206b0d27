package sources

import (
	"context"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// Gated wraps a source behind a human-in-the-loop gate. Fetch suspends with
// a BlockedError until the operator signals the gate resolved, after which
// the wrapped fetch proceeds. This keeps the paused control flow at the
// collaborator boundary; the engine only ever sees completed batches.
type Gated struct {
	inner   Source
	reason  string
	token   string
	cleared bool
}

// NewGated wraps a source that starts out blocked for the given reason.
func NewGated(inner Source, reason, resumeToken string) *Gated {
	return &Gated{inner: inner, reason: reason, token: resumeToken}
}

// ID returns the wrapped source's tag.
func (g *Gated) ID() records.SourceID {
	return g.inner.ID()
}

// Fetch returns the blocked state until resumed, then delegates.
func (g *Gated) Fetch(ctx context.Context) (*Batch, error) {
	if !g.cleared {
		return nil, &errors.BlockedError{
			Source:      g.inner.ID().String(),
			Reason:      g.reason,
			ResumeToken: g.token,
		}
	}
	return g.inner.Fetch(ctx)
}

// Resume clears the gate when the operator presents the matching token.
func (g *Gated) Resume(token string) bool {
	if token != g.token {
		return false
	}
	g.cleared = true
	return true
}
