package records

import "slices"

// SourceID identifies the registry a raw record was collected from.
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// The four portals. DubaiChamber is the coded registry; DubaiDED and
// SharjahSEDD are keyword-lookup registries; MOEGrowth is the manual
// gap-filler source.
const (
	SourceDubaiChamber SourceID = "dubai_chamber"
	SourceDubaiDED     SourceID = "dubai_ded"
	SourceSharjahSEDD  SourceID = "sharjah_sedd"
	SourceMOEGrowth    SourceID = "moe_growth_manual"
)

// SourceIDs returns every known source in priority order, most trusted first.
// This order is the processing order for batches and the precedence order for
// contact-field conflicts.
func SourceIDs() []SourceID {
	return []SourceID{
		SourceDubaiChamber,
		SourceDubaiDED,
		SourceSharjahSEDD,
		SourceMOEGrowth,
	}
}

// IsValid returns true if the ID is one of the defined sources.
func (id SourceID) IsValid() bool {
	return slices.Contains(SourceIDs(), id)
}

// Rank returns the source's priority rank. Lower is more trusted; unknown
// sources rank below every known one.
func (id SourceID) Rank() int {
	for i, known := range SourceIDs() {
		if known == id {
			return i
		}
	}
	return len(SourceIDs())
}

// Outranks reports whether id is strictly more trusted than other.
func (id SourceID) Outranks(other SourceID) bool {
	return id.Rank() < other.Rank()
}

// SourceSet is an insertion-ordered set of source IDs. Order is preserved so
// that output and summaries are stable across runs.
type SourceSet struct {
	order []SourceID
	seen  map[SourceID]struct{}
}

// NewSourceSet creates a set seeded with the given IDs.
func NewSourceSet(ids ...SourceID) *SourceSet {
	s := &SourceSet{seen: make(map[SourceID]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an ID if not already present.
func (s *SourceSet) Add(id SourceID) {
	if s.seen == nil {
		s.seen = make(map[SourceID]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

// Has reports whether the set contains id.
func (s *SourceSet) Has(id SourceID) bool {
	_, ok := s.seen[id]
	return ok
}

// List returns the IDs in insertion order.
func (s *SourceSet) List() []SourceID {
	return slices.Clone(s.order)
}

// Len returns the number of IDs in the set.
func (s *SourceSet) Len() int {
	return len(s.order)
}

// Copy returns an independent copy of the set.
func (s *SourceSet) Copy() *SourceSet {
	return NewSourceSet(s.order...)
}
