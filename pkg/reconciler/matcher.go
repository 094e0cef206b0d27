package reconciler

import (
	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/index"
	"github.com/outreachworks/dirmerge/pkg/normalize"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// Tier labels the quality of a match. Strong matches share an email or phone
// key; fallback matches share only the name and emirate, which is weaker
// evidence of identity and gets more conservative merge treatment.
type Tier string

// Match tiers.
const (
	TierStrong   Tier = "strong"
	TierFallback Tier = "fallback"
)

// Match is the result of probing the candidate index for one incoming record.
type Match struct {
	Record *records.CanonicalRecord
	Plane  index.Plane
	Tier   Tier
}

// matcher probes the candidate index in strict plane priority order.
type matcher struct {
	idx *index.Index
}

func newMatcher(idx *index.Index) *matcher {
	return &matcher{idx: idx}
}

// match returns the canonical record an incoming identity resolves to, or nil
// when the record is new. When the identity strong-matches two different
// canonical records through different planes, an AmbiguousMatchError is
// returned and the record must be held out of automatic merging.
func (m *matcher) match(id normalize.Identity, raw *records.RawRecord) (*Match, error) {
	if id.NameKey == "" {
		return nil, nil
	}

	// Collect every strong hit first so conflicting identity signals are
	// detected instead of silently resolved by probe order.
	var (
		strong      *Match
		strongOwner *records.CanonicalRecord
	)
	note := func(hit *records.CanonicalRecord, plane index.Plane) error {
		if hit == nil {
			return nil
		}
		if strongOwner == nil {
			strongOwner = hit
			strong = &Match{Record: hit, Plane: plane, Tier: TierStrong}
			return nil
		}
		if strongOwner != hit {
			return &errors.AmbiguousMatchError{
				CompanyName: id.DisplayName,
				FirstMatch:  strongOwner.CompanyName,
				SecondMatch: hit.CompanyName,
				FirstPlane:  strong.Plane.String(),
				SecondPlane: plane.String(),
			}
		}
		return nil
	}

	for _, emailKey := range id.EmailKeys {
		if err := note(m.idx.Owner(index.PlaneEmail, id.NameKey, emailKey), index.PlaneEmail); err != nil {
			return nil, err
		}
	}
	if id.PhoneKey != "" {
		if err := note(m.idx.Owner(index.PlanePhone, id.NameKey, id.PhoneKey), index.PlanePhone); err != nil {
			return nil, err
		}
	}
	if strong != nil {
		return strong, nil
	}

	// Fallback plane, only consulted when the incoming record carries an
	// emirate; the plane itself is only populated for canonical records
	// that carry one.
	if emirate := index.EmirateKey(raw.Emirate); emirate != "" {
		if hit := m.idx.Owner(index.PlaneEmirate, id.NameKey, emirate); hit != nil {
			return &Match{Record: hit, Plane: index.PlaneEmirate, Tier: TierFallback}, nil
		}
	}

	return nil, nil
}
