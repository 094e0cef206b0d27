package reconciler

import (
	"github.com/outreachworks/dirmerge/pkg/authority"
	"github.com/outreachworks/dirmerge/pkg/provenance"
	"github.com/outreachworks/dirmerge/pkg/report"
)

// options holds the configurable collaborators of a Reconciler.
type options struct {
	authorities authority.Authority
	tracker     provenance.Tracker
	report      *report.Report
}

// Option configures a Reconciler.
type Option func(*options)

// newOptions applies options over the defaults.
func newOptions(opts ...Option) *options {
	o := &options{
		authorities: authority.New(),
		tracker:     provenance.NewTracker(),
		report:      report.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAuthority replaces the default source-priority table.
func WithAuthority(a authority.Authority) Option {
	return func(o *options) {
		if a != nil {
			o.authorities = a
		}
	}
}

// WithTracker replaces the default provenance tracker.
func WithTracker(t provenance.Tracker) Option {
	return func(o *options) {
		if t != nil {
			o.tracker = t
		}
	}
}

// WithReport attaches an externally owned report, letting the orchestrating
// run register expected query units before any batch is consumed.
func WithReport(r *report.Report) Option {
	return func(o *options) {
		if r != nil {
			o.report = r
		}
	}
}
