// Package index implements the candidate index: the single stateful lookup
// structure mapping normalized identity keys to the canonical record they
// currently resolve to. Three independent planes are kept, each keyed by the
// name key plus one secondary key, and each only populated when both keys are
// present. At most one canonical record is ever reachable from a fully
// specified key tuple; that invariant is what protects the output set from
// duplicate entities.
package index

import (
	"fmt"
	"strings"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// Plane identifies one of the index's key planes, in lookup priority order.
type Plane int

// Planes in priority order: shared email, then shared phone, then the
// name+emirate fallback.
const (
	PlaneEmail Plane = iota
	PlanePhone
	PlaneEmirate
)

// String returns the plane's name for logs and conflict reports.
func (p Plane) String() string {
	switch p {
	case PlaneEmail:
		return "name+email"
	case PlanePhone:
		return "name+phone"
	case PlaneEmirate:
		return "name+emirate"
	default:
		return "unknown"
	}
}

// key is a fully specified plane tuple.
type key struct {
	name      string
	secondary string
}

// Index owns every canonical record of a run. It is not safe for concurrent
// use: the engine is a single logical writer by design, since merge
// precedence is order sensitive.
type Index struct {
	byEmail   map[key]*records.CanonicalRecord
	byPhone   map[key]*records.CanonicalRecord
	byEmirate map[key]*records.CanonicalRecord

	// order holds records in first-seen order, which is the output order.
	order []*records.CanonicalRecord
}

// New creates an empty candidate index.
func New() *Index {
	return &Index{
		byEmail:   make(map[key]*records.CanonicalRecord),
		byPhone:   make(map[key]*records.CanonicalRecord),
		byEmirate: make(map[key]*records.CanonicalRecord),
	}
}

// EmirateKey normalizes an emirate value for plane lookups.
func EmirateKey(emirate string) string {
	return strings.ToLower(strings.TrimSpace(emirate))
}

// Owner returns the canonical record registered under the given plane tuple,
// or nil. Lookups with an absent component always miss.
func (x *Index) Owner(plane Plane, nameKey, secondary string) *records.CanonicalRecord {
	if nameKey == "" || secondary == "" {
		return nil
	}
	k := key{name: nameKey, secondary: secondary}
	switch plane {
	case PlaneEmail:
		return x.byEmail[k]
	case PlanePhone:
		return x.byPhone[k]
	case PlaneEmirate:
		return x.byEmirate[k]
	default:
		return nil
	}
}

// Insert registers a brand-new canonical record into every plane it has
// complete keys for and appends it to the output order. A plane slot already
// owned by another record is a merge failure, never an accepted state.
func (x *Index) Insert(c *records.CanonicalRecord) error {
	if err := x.register(c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%05d", len(x.order)+1)
	}
	x.order = append(x.order, c)
	return nil
}

// Reregister registers any planes a record newly completed during a merge,
// e.g. when it gained an email it did not have before. Planes the record
// already owns are no-ops.
func (x *Index) Reregister(c *records.CanonicalRecord) error {
	return x.register(c)
}

func (x *Index) register(c *records.CanonicalRecord) error {
	type slot struct {
		plane     Plane
		secondary string
		m         map[key]*records.CanonicalRecord
	}
	slots := []slot{
		{PlaneEmail, c.EmailKey, x.byEmail},
		{PlanePhone, c.PhoneKey, x.byPhone},
		{PlaneEmirate, EmirateKey(c.Emirate), x.byEmirate},
	}

	for _, s := range slots {
		if c.NameKey == "" || s.secondary == "" {
			continue
		}
		k := key{name: c.NameKey, secondary: s.secondary}
		if owner, taken := x.planeOwner(s.m, k); taken && owner != c {
			return &errors.AmbiguousMatchError{
				CompanyName: c.CompanyName,
				FirstMatch:  owner.CompanyName,
				SecondMatch: c.CompanyName,
				FirstPlane:  s.plane.String(),
				SecondPlane: s.plane.String(),
			}
		}
		s.m[k] = c
	}
	return nil
}

func (x *Index) planeOwner(m map[key]*records.CanonicalRecord, k key) (*records.CanonicalRecord, bool) {
	owner, ok := m[k]
	return owner, ok
}

// Records returns every canonical record in first-seen order. The returned
// slice is shared; callers must not reorder it.
func (x *Index) Records() []*records.CanonicalRecord {
	return x.order
}

// Len returns the number of canonical records held.
func (x *Index) Len() int {
	return len(x.order)
}
