package records

import (
	"slices"
	"strings"
)

// NoteDelimiter joins and splits note tags in delimited form.
const NoteDelimiter = ";"

// Well-known limitation notes attached during normalization and validation.
const (
	NoteEmailInvalidRemoved = "email_invalid_removed"
	NotePhoneInvalidRemoved = "phone_invalid_removed"
	NoteNoContactInfo       = "no_contact_info"
	NoteContactConflict     = "contact_conflict_lower_priority"
)

// NoteSet is an insertion-ordered set of short tag strings. It only ever
// grows: merges union notes, they never overwrite.
type NoteSet struct {
	order []string
	seen  map[string]struct{}
}

// NewNoteSet creates a set seeded with the given notes. Empty and duplicate
// values are ignored.
func NewNoteSet(notes ...string) *NoteSet {
	s := &NoteSet{seen: make(map[string]struct{})}
	s.Add(notes...)
	return s
}

// ParseNotes builds a set from a delimiter-joined string.
func ParseNotes(joined string) *NoteSet {
	return NewNoteSet(strings.Split(joined, NoteDelimiter)...)
}

// Add inserts notes not already present, preserving arrival order.
func (s *NoteSet) Add(notes ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, note := range notes {
		note = strings.TrimSpace(note)
		if note == "" {
			continue
		}
		if _, ok := s.seen[note]; ok {
			continue
		}
		s.seen[note] = struct{}{}
		s.order = append(s.order, note)
	}
}

// Union inserts every note from other.
func (s *NoteSet) Union(other *NoteSet) {
	if other == nil {
		return
	}
	s.Add(other.order...)
}

// Has reports whether the set contains note.
func (s *NoteSet) Has(note string) bool {
	_, ok := s.seen[note]
	return ok
}

// List returns the notes in insertion order.
func (s *NoteSet) List() []string {
	return slices.Clone(s.order)
}

// Len returns the number of notes in the set.
func (s *NoteSet) Len() int {
	return len(s.order)
}

// Join returns the delimiter-joined form used in output files.
func (s *NoteSet) Join() string {
	return strings.Join(s.order, NoteDelimiter)
}

// Copy returns an independent copy of the set.
func (s *NoteSet) Copy() *NoteSet {
	return NewNoteSet(s.order...)
}
