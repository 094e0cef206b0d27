// Package normalize canonicalizes the identity-bearing fields of a raw
// directory record (company name, phone, email) into comparable key forms.
// Normalization is stateless: the same raw record always yields the same
// identity, which is what makes re-running a batch an idempotent no-op.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/outreachworks/dirmerge/pkg/records"
)

// UAE dialing constants. A leading zero is the national trunk prefix; 00 is
// the international call prefix.
const (
	countryCode  = "971"
	intlPrefix   = "00" + countryCode
	minPhoneLen  = 7
	emailSepSemi = ";"
	emailSepComm = ","
)

var (
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
	nonDigitRe  = regexp.MustCompile(`\D+`)
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = strings.NewReplacer(".", "", ",", "", "(", "", ")", "")

	// Strips combining marks so accented spellings compare equal.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Identity is the normalized identity derived from one raw record. Empty
// string key fields mean absent, never an empty placeholder.
type Identity struct {
	// DisplayName is the trimmed, whitespace-collapsed company name with
	// the original casing preserved for output.
	DisplayName string

	// NameKey is the lowercased, punctuation-stripped comparison form.
	// Legal suffix tokens (llc, fze, pjsc, ...) are retained because they
	// disambiguate otherwise similar names.
	NameKey string

	// PhoneKey is the digits-only international form, or empty.
	PhoneKey string

	// EmailKeys holds every valid address the record carries, in source
	// order. All of them are used for matching.
	EmailKeys []string

	// PrimaryEmail is the first valid address, the one canonical records
	// display. Empty when the record has no valid address.
	PrimaryEmail string

	// Notes are limitation tags accrued during normalization, e.g. when a
	// displayed email failed validation and was dropped.
	Notes []string
}

// Record derives the normalized identity of a raw record.
func Record(raw *records.RawRecord) Identity {
	id := Identity{
		DisplayName: CollapseSpace(raw.CompanyName),
		NameKey:     Name(raw.CompanyName),
		PhoneKey:    Phone(raw.Phone),
	}

	id.EmailKeys = Emails(raw.Email)
	if len(id.EmailKeys) > 0 {
		id.PrimaryEmail = id.EmailKeys[0]
	}

	if strings.TrimSpace(raw.Email) != "" && len(id.EmailKeys) == 0 {
		id.Notes = append(id.Notes, records.NoteEmailInvalidRemoved)
	}
	if strings.TrimSpace(raw.Phone) != "" && id.PhoneKey == "" {
		id.Notes = append(id.Notes, records.NotePhoneInvalidRemoved)
	}

	return id
}

// Name returns the comparison key for a company name: lowercased, accents
// folded, with commas, periods and parentheses deleted so "L.L.C." and "LLC"
// compare equal, and every remaining non-alphanumeric run collapsed to a
// single space.
func Name(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	lowered := strings.ToLower(value)
	if folded, _, err := transform.String(deaccent, lowered); err == nil {
		lowered = folded
	}

	// Delete the fixed punctuation set before tokenizing so dotted legal
	// suffixes stay single tokens.
	lowered = punctuation.Replace(lowered)
	lowered = nonAlnumRe.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(lowered, " "))
}

// Phone returns the digits-only international key for a displayed phone
// number, or empty when the value is too short to be a plausible number.
// National trunk form (05x/04x...) and 00-prefixed international form are
// both rewritten to the bare country-code form.
func Phone(value string) string {
	digits := nonDigitRe.ReplaceAllString(value, "")
	if len(digits) < minPhoneLen {
		return ""
	}

	switch {
	case strings.HasPrefix(digits, intlPrefix):
		digits = countryCode + digits[len(intlPrefix):]
	case strings.HasPrefix(digits, "00"):
		// International dialing prefix for some other country; strip it
		// and keep the foreign number bare.
		digits = digits[2:]
	case strings.HasPrefix(digits, countryCode):
		// Already in international form.
	case strings.HasPrefix(digits, "0"):
		digits = countryCode + digits[1:]
	default:
		// Foreign or already-bare numbers are kept as captured.
	}

	if len(digits) < minPhoneLen {
		return ""
	}
	return digits
}

// Emails splits a displayed email field on the known delimiters and returns
// every address that validates, lowercased and trimmed, in source order.
// Addresses that fail validation are dropped, not kept as placeholders.
func Emails(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	var keys []string
	seen := make(map[string]struct{})
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(emailSepSemi+emailSepComm, r)
	})
	for _, part := range parts {
		key := strings.ToLower(strings.TrimSpace(part))
		if key == "" || !emailRe.MatchString(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// ValidEmail reports whether a single address has a valid shape: exactly one
// @ and a domain segment with at least one dot.
func ValidEmail(value string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(value)))
}

// CollapseSpace trims a value and collapses internal whitespace runs to
// single spaces, preserving casing.
func CollapseSpace(value string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(value, " "))
}
