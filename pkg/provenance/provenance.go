// Package provenance provides field-level tracking of which source supplied
// each contact field of a canonical record, and why a value was kept or
// replaced during merging. The merger consults the current entry to decide
// precedence; the run summary can dump the full history for auditing.
package provenance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/outreachworks/dirmerge/pkg/records"
)

// Provenance records one decision about a field value.
type Provenance struct {
	Source    records.SourceID `yaml:"source"`
	Field     string           `yaml:"field"`
	Value     string           `yaml:"value"`
	Timestamp utc.Time         `yaml:"timestamp"`
	Reason    string           `yaml:"reason,omitempty"`
}

// Map holds the full history per "recordID:field" key, newest last.
type Map map[string][]Provenance

// Tracker manages provenance during a reconciliation run.
type Tracker interface {
	// Track appends a provenance entry for a field of a canonical record.
	Track(recordID, field string, p Provenance)

	// Current returns the newest entry for a field, or nil.
	Current(recordID, field string) *Provenance

	// CurrentSource returns the source of the newest entry for a field,
	// or the zero SourceID when nothing was tracked.
	CurrentSource(recordID, field string) records.SourceID

	// FindByRecord returns all histories for one canonical record.
	FindByRecord(recordID string) map[string][]Provenance

	// Map returns the complete provenance map.
	Map() Map

	// Clear removes all provenance data.
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
}

// NewTracker creates a new provenance tracker.
func NewTracker() Tracker {
	return &tracker{provenance: make(Map)}
}

// Track appends a provenance entry for a field.
func (t *tracker) Track(recordID, field string, p Provenance) {
	if p.Timestamp.IsZero() {
		p.Timestamp = utc.Now()
	}
	if p.Field == "" {
		p.Field = field
	}
	key := makeKey(recordID, field)
	t.provenance[key] = append(t.provenance[key], p)
}

// Current returns the newest entry for a field, or nil.
func (t *tracker) Current(recordID, field string) *Provenance {
	entries := t.provenance[makeKey(recordID, field)]
	if len(entries) == 0 {
		return nil
	}
	return &entries[len(entries)-1]
}

// CurrentSource returns the source of the newest entry for a field.
func (t *tracker) CurrentSource(recordID, field string) records.SourceID {
	if p := t.Current(recordID, field); p != nil {
		return p.Source
	}
	return ""
}

// FindByRecord returns all histories for one canonical record.
func (t *tracker) FindByRecord(recordID string) map[string][]Provenance {
	result := make(map[string][]Provenance)
	prefix := recordID + ":"
	for key, entries := range t.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[field] = entries
		}
	}
	return result
}

// Map returns the complete provenance map.
func (t *tracker) Map() Map {
	return t.provenance
}

// Clear removes all provenance data.
func (t *tracker) Clear() {
	t.provenance = make(Map)
}

func makeKey(recordID, field string) string {
	return fmt.Sprintf("%s:%s", recordID, field)
}

// MarshalYAML renders the map with sorted keys so dumps are reproducible.
func (m Map) MarshalYAML() ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, yaml.MapItem{Key: k, Value: m[k]})
	}
	return yaml.Marshal(ordered)
}
