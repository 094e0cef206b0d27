// Package authority encodes the fixed source-priority table used to resolve
// contact-field conflicts between registries. The coded registry publishes
// verified contact data and outranks the keyword-lookup registries, which in
// turn outrank the manual gap-filler source.
package authority

import "github.com/outreachworks/dirmerge/pkg/records"

// Field defines source priority for a specific record field.
type Field struct {
	Path     string           `json:"path" yaml:"path"`         // e.g. "phone", "email"
	Source   records.SourceID `json:"source" yaml:"source"`     // which source is authoritative
	Priority int              `json:"priority" yaml:"priority"` // higher = more authoritative
}

// Authority answers precedence questions during merging.
type Authority interface {
	// Find returns the authority entry for a field and source, or nil.
	Find(fieldPath string, source records.SourceID) *Field

	// Priority returns the authority score of a source for a field.
	// Unknown sources score zero.
	Priority(fieldPath string, source records.SourceID) int

	// ShouldOverwrite reports whether a non-empty value from the incoming
	// source may replace a value contributed by the current source.
	ShouldOverwrite(fieldPath string, current, incoming records.SourceID) bool

	// SourceOrder returns every source in precedence order, most trusted
	// first. This is also the batch-processing order.
	SourceOrder() []records.SourceID
}

// authorities is the default table-backed implementation.
type authorities struct {
	fields []Field
}

// New creates the standard authority table.
func New() Authority {
	return &authorities{fields: defaultContactAuthorities()}
}

// NewWithFields creates an authority from an explicit table, for tests and
// alternative deployments.
func NewWithFields(fields []Field) Authority {
	return &authorities{fields: fields}
}

// Find returns the authority entry for a field and source, or nil.
func (a *authorities) Find(fieldPath string, source records.SourceID) *Field {
	for i, f := range a.fields {
		if f.Path == fieldPath && f.Source == source {
			return &a.fields[i]
		}
	}
	return nil
}

// Priority returns the authority score of a source for a field.
func (a *authorities) Priority(fieldPath string, source records.SourceID) int {
	if f := a.Find(fieldPath, source); f != nil {
		return f.Priority
	}
	return 0
}

// ShouldOverwrite reports whether incoming strictly outranks current for the
// field. Ties keep the existing value so processing order never leaks into
// the result beyond the fixed source order.
func (a *authorities) ShouldOverwrite(fieldPath string, current, incoming records.SourceID) bool {
	curP := a.Priority(fieldPath, current)
	inP := a.Priority(fieldPath, incoming)
	if curP == 0 && inP == 0 {
		// Field has no table entry; fall back to the global source order.
		return incoming.Outranks(current)
	}
	return inP > curP
}

// SourceOrder returns every source in precedence order.
func (a *authorities) SourceOrder() []records.SourceID {
	return records.SourceIDs()
}

// defaultContactAuthorities returns the standard per-field table. The coded
// registry verifies phone and email before publishing, so it wins both; the
// keyword registries sit between it and the manual gap-filler.
func defaultContactAuthorities() []Field {
	return []Field{
		{Path: "phone", Source: records.SourceDubaiChamber, Priority: 100},
		{Path: "phone", Source: records.SourceDubaiDED, Priority: 80},
		{Path: "phone", Source: records.SourceSharjahSEDD, Priority: 75},
		{Path: "phone", Source: records.SourceMOEGrowth, Priority: 50},

		{Path: "email", Source: records.SourceDubaiChamber, Priority: 100},
		{Path: "email", Source: records.SourceDubaiDED, Priority: 80},
		{Path: "email", Source: records.SourceSharjahSEDD, Priority: 75},
		{Path: "email", Source: records.SourceMOEGrowth, Priority: 50},

		{Path: "source_url", Source: records.SourceDubaiChamber, Priority: 90},
		{Path: "source_url", Source: records.SourceDubaiDED, Priority: 70},
		{Path: "source_url", Source: records.SourceSharjahSEDD, Priority: 65},
		{Path: "source_url", Source: records.SourceMOEGrowth, Priority: 40},
	}
}
