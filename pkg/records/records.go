// Package records defines the input and output units of the reconciliation
// engine: raw directory records as emitted by the portal collaborators, and
// canonical records, the reconciled one-per-company representation.
package records

import (
	"slices"
	"strings"

	"github.com/agentstation/utc"
)

// RawRecord is one business-directory row as captured from a portal. It is
// immutable once produced by a collaborator; the engine never mutates it.
type RawRecord struct {
	CompanyName      string   `yaml:"company_name" json:"company_name"`
	BusinessActivity string   `yaml:"business_activity,omitempty" json:"business_activity,omitempty"`
	Phone            string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	Email            string   `yaml:"email,omitempty" json:"email,omitempty"`
	Source           SourceID `yaml:"source" json:"source"`
	Emirate          string   `yaml:"emirate,omitempty" json:"emirate,omitempty"`
	ActivityCode     string   `yaml:"activity_code,omitempty" json:"activity_code,omitempty"`
	SourceURL        string   `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	ObservedAt       utc.Time `yaml:"observed_at" json:"observed_at"`
	Notes            []string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// CanonicalRecord is the single reconciled representation of one company.
// It is owned exclusively by the candidate index: created on the first
// unmatched raw record, mutated on every later match, never deleted.
type CanonicalRecord struct {
	// ID is assigned by the candidate index in first-seen order and keys
	// provenance entries. It is stable across identical runs.
	ID string

	// Display fields. CompanyName keeps the first-seen display casing so
	// output stays stable across runs.
	CompanyName      string
	BusinessActivity string
	Phone            string
	Email            string
	Emirate          string
	SourceURL        string

	// Normalized identity keys. Empty string means absent.
	NameKey  string
	EmailKey string
	PhoneKey string

	// Provenance sets, unioned on every merge.
	Sources       *SourceSet
	ActivityCodes *StringSet
	Notes         *NoteSet

	LastSeen utc.Time
}

// HasContact reports whether the record carries at least one contact field.
func (c *CanonicalRecord) HasContact() bool {
	return c.Phone != "" || c.Email != ""
}

// StringSet is an insertion-ordered set of strings, used for contributing
// activity codes.
type StringSet struct {
	order []string
	seen  map[string]struct{}
}

// NewStringSet creates a set seeded with the given values, skipping empties.
func NewStringSet(values ...string) *StringSet {
	s := &StringSet{seen: make(map[string]struct{})}
	s.Add(values...)
	return s
}

// Add inserts values not already present, preserving arrival order.
func (s *StringSet) Add(values ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.order = append(s.order, v)
	}
}

// Union inserts every value from other.
func (s *StringSet) Union(other *StringSet) {
	if other == nil {
		return
	}
	s.Add(other.order...)
}

// Has reports whether the set contains v.
func (s *StringSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// List returns the values in insertion order.
func (s *StringSet) List() []string {
	return slices.Clone(s.order)
}

// Len returns the number of values in the set.
func (s *StringSet) Len() int {
	return len(s.order)
}

// Join returns the values joined with the given separator.
func (s *StringSet) Join(sep string) string {
	return strings.Join(s.order, sep)
}
