package reconciler

import (
	"strings"
	"unicode"

	"github.com/outreachworks/dirmerge/pkg/authority"
	"github.com/outreachworks/dirmerge/pkg/index"
	"github.com/outreachworks/dirmerge/pkg/normalize"
	"github.com/outreachworks/dirmerge/pkg/provenance"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// Field paths used for authority lookups and provenance keys.
const (
	fieldPhone     = "phone"
	fieldEmail     = "email"
	fieldActivity  = "business_activity"
	fieldSourceURL = "source_url"
	fieldEmirate   = "emirate"
)

// merger applies the deterministic precedence policy. Its decisions are a
// pure function of (existing canonical record, incoming raw record, match
// tier) plus the fixed authority table; processing order contributes nothing
// beyond the fixed batch order.
type merger struct {
	idx         *index.Index
	authorities authority.Authority
	tracker     provenance.Tracker
}

func newMerger(idx *index.Index, authorities authority.Authority, tracker provenance.Tracker) *merger {
	return &merger{idx: idx, authorities: authorities, tracker: tracker}
}

// insert constructs a canonical record from an unmatched raw record and
// registers it into the candidate index.
func (m *merger) insert(raw *records.RawRecord, id normalize.Identity) (*records.CanonicalRecord, error) {
	c := &records.CanonicalRecord{
		CompanyName:      id.DisplayName,
		BusinessActivity: normalize.CollapseSpace(raw.BusinessActivity),
		Emirate:          strings.TrimSpace(raw.Emirate),
		SourceURL:        strings.TrimSpace(raw.SourceURL),
		NameKey:          id.NameKey,
		Sources:          records.NewSourceSet(raw.Source),
		ActivityCodes:    records.NewStringSet(raw.ActivityCode),
		Notes:            records.NewNoteSet(raw.Notes...),
		LastSeen:         raw.ObservedAt,
	}
	c.Notes.Add(id.Notes...)

	// A field that failed its validity predicate is absent, never an empty
	// placeholder.
	if id.PhoneKey != "" {
		c.Phone = strings.TrimSpace(raw.Phone)
		c.PhoneKey = id.PhoneKey
	}
	if id.PrimaryEmail != "" {
		c.Email = id.PrimaryEmail
		c.EmailKey = id.PrimaryEmail
	}

	if err := m.idx.Insert(c); err != nil {
		return nil, err
	}

	m.track(c, fieldPhone, c.Phone, raw.Source, "seeded from first record")
	m.track(c, fieldEmail, c.Email, raw.Source, "seeded from first record")
	m.track(c, fieldActivity, c.BusinessActivity, raw.Source, "seeded from first record")
	m.track(c, fieldSourceURL, c.SourceURL, raw.Source, "seeded from first record")
	return c, nil
}

// merge folds a matched raw record into its canonical record under the
// precedence policy and re-registers any newly completed index planes.
func (m *merger) merge(c *records.CanonicalRecord, raw *records.RawRecord, id normalize.Identity, tier Tier) error {
	m.mergePhone(c, raw, id, tier)
	m.mergeEmail(c, raw, id, tier)
	m.mergeActivity(c, raw)
	m.mergeEmirate(c, raw)
	m.mergeSourceURL(c, raw)

	c.Sources.Add(raw.Source)
	c.ActivityCodes.Add(raw.ActivityCode)
	c.Notes.Add(raw.Notes...)
	c.Notes.Add(id.Notes...)

	if raw.ObservedAt.After(c.LastSeen) {
		c.LastSeen = raw.ObservedAt
	}

	return m.idx.Reregister(c)
}

func (m *merger) mergePhone(c *records.CanonicalRecord, raw *records.RawRecord, id normalize.Identity, tier Tier) {
	if id.PhoneKey == "" {
		return
	}

	if c.Phone == "" {
		// Filling an absent field is allowed on any tier, but never at the
		// cost of the plane-uniqueness invariant.
		if !m.claimPlane(c, index.PlanePhone, id.PhoneKey) {
			return
		}
		c.Phone = strings.TrimSpace(raw.Phone)
		c.PhoneKey = id.PhoneKey
		m.track(c, fieldPhone, c.Phone, raw.Source, "filled absent field")
		return
	}

	if id.PhoneKey == c.PhoneKey {
		return
	}

	current := m.tracker.CurrentSource(c.ID, fieldPhone)
	if tier == TierStrong && m.authorities.ShouldOverwrite(fieldPhone, current, raw.Source) {
		if !m.claimPlane(c, index.PlanePhone, id.PhoneKey) {
			return
		}
		c.Phone = strings.TrimSpace(raw.Phone)
		c.PhoneKey = id.PhoneKey
		m.track(c, fieldPhone, c.Phone, raw.Source, "overwritten by higher-priority source")
		return
	}

	// A differing value that loses precedence is recorded, not applied.
	c.Notes.Add(records.NoteContactConflict)
}

func (m *merger) mergeEmail(c *records.CanonicalRecord, raw *records.RawRecord, id normalize.Identity, tier Tier) {
	if id.PrimaryEmail == "" {
		return
	}

	if c.Email == "" {
		if !m.claimPlane(c, index.PlaneEmail, id.PrimaryEmail) {
			return
		}
		c.Email = id.PrimaryEmail
		c.EmailKey = id.PrimaryEmail
		m.track(c, fieldEmail, c.Email, raw.Source, "filled absent field")
		return
	}

	if id.PrimaryEmail == c.EmailKey {
		return
	}

	current := m.tracker.CurrentSource(c.ID, fieldEmail)
	if tier == TierStrong && m.authorities.ShouldOverwrite(fieldEmail, current, raw.Source) {
		if !m.claimPlane(c, index.PlaneEmail, id.PrimaryEmail) {
			return
		}
		c.Email = id.PrimaryEmail
		c.EmailKey = id.PrimaryEmail
		m.track(c, fieldEmail, c.Email, raw.Source, "overwritten by higher-priority source")
		return
	}

	c.Notes.Add(records.NoteContactConflict)
}

// mergeActivity keeps whichever activity text is more explicit: longer
// non-whitespace content wins, ties keep the existing value. Activity text is
// carried verbatim, never semantically reconciled.
func (m *merger) mergeActivity(c *records.CanonicalRecord, raw *records.RawRecord) {
	incoming := normalize.CollapseSpace(raw.BusinessActivity)
	if incoming == "" {
		return
	}
	if nonSpaceLen(incoming) > nonSpaceLen(c.BusinessActivity) {
		c.BusinessActivity = incoming
		m.track(c, fieldActivity, incoming, raw.Source, "more explicit activity text")
	}
}

func (m *merger) mergeEmirate(c *records.CanonicalRecord, raw *records.RawRecord) {
	if c.Emirate != "" {
		return
	}
	emirate := strings.TrimSpace(raw.Emirate)
	if emirate == "" {
		return
	}
	// Filling the emirate completes the name+emirate plane, so the slot must
	// be claimed like a contact key; a tuple owned by another record would
	// otherwise be silently rebound during re-registration.
	if !m.claimPlane(c, index.PlaneEmirate, index.EmirateKey(emirate)) {
		return
	}
	c.Emirate = emirate
	m.track(c, fieldEmirate, emirate, raw.Source, "filled absent field")
}

func (m *merger) mergeSourceURL(c *records.CanonicalRecord, raw *records.RawRecord) {
	url := strings.TrimSpace(raw.SourceURL)
	if url == "" {
		return
	}
	if c.SourceURL == "" {
		c.SourceURL = url
		m.track(c, fieldSourceURL, url, raw.Source, "filled absent field")
		return
	}
	if url == c.SourceURL {
		return
	}

	current := m.tracker.CurrentSource(c.ID, fieldSourceURL)
	if m.authorities.ShouldOverwrite(fieldSourceURL, current, raw.Source) {
		c.SourceURL = url
		m.track(c, fieldSourceURL, url, raw.Source, "overwritten by higher-priority source")
	}
}

// claimPlane checks that a contact key the record is about to take is not
// already owned by a different canonical record. Taking it would put two
// records behind one fully-specified tuple, which is a merge failure; the
// field update is skipped and the conflict noted instead.
func (m *merger) claimPlane(c *records.CanonicalRecord, plane index.Plane, secondary string) bool {
	owner := m.idx.Owner(plane, c.NameKey, secondary)
	if owner != nil && owner != c {
		c.Notes.Add(records.NoteContactConflict)
		return false
	}
	return true
}

func (m *merger) track(c *records.CanonicalRecord, field, value string, source records.SourceID, reason string) {
	if value == "" {
		return
	}
	m.tracker.Track(c.ID, field, provenance.Provenance{
		Source: source,
		Value:  value,
		Reason: reason,
	})
}

// nonSpaceLen counts the non-whitespace runes of a value.
func nonSpaceLen(value string) int {
	n := 0
	for _, r := range value {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
