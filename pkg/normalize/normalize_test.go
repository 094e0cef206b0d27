package normalize

import (
	"testing"

	"github.com/outreachworks/dirmerge/pkg/records"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"simple", "Gulf Oilfield Services LLC", "gulf oilfield services llc"},
		{"dotted legal suffix", "GULF OILFIELD SERVICES L.L.C.", "gulf oilfield services llc"},
		{"punctuation and casing", "Al-Futtaim (Trading) Co.", "al futtaim trading co"},
		{"accents folded", "Société Générale", "societe generale"},
		{"whitespace collapsed", "  Desert   Rose\tTrading  ", "desert rose trading"},
		{"arabic dash variants", "Al – Noor", "al noor"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.value); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"national trunk form", "04 337 1123", "97143371123"},
		{"mobile trunk form", "050-123-4567", "971501234567"},
		{"international 00 prefix", "0097143371123", "97143371123"},
		{"already international", "97143371123", "97143371123"},
		{"formatted international", "+971 4 337 1123", "97143371123"},
		{"foreign number kept", "442071234567", "442071234567"},
		{"foreign intl prefix stripped", "0044 20 7123 4567", "442071234567"},
		{"foreign intl prefix not trunk rewritten", "0049 30 901820", "4930901820"},
		{"too short", "12345", ""},
		{"empty", "", ""},
		{"letters only", "call us", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.value); got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestPhoneEquivalentForms(t *testing.T) {
	// The three capture forms of one Dubai landline must share a key.
	forms := []string{"04 337 1123", "0097143371123", "97143371123"}
	want := Phone(forms[0])
	if want == "" {
		t.Fatal("expected a non-empty key")
	}
	for _, form := range forms[1:] {
		if got := Phone(form); got != want {
			t.Errorf("Phone(%q) = %q, want %q", form, got, want)
		}
	}
}

func TestEmails(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single valid", "Info@Example.ae", []string{"info@example.ae"}},
		{"semicolon list", "a@x.ae; b@y.ae", []string{"a@x.ae", "b@y.ae"}},
		{"comma list", "a@x.ae,b@y.ae", []string{"a@x.ae", "b@y.ae"}},
		{"invalid dropped", "a@x.ae; not-an-email", []string{"a@x.ae"}},
		{"no dot in domain", "a@localhost", nil},
		{"two at signs", "a@@x.ae", nil},
		{"duplicates collapsed", "a@x.ae;A@X.AE", []string{"a@x.ae"}},
		{"empty", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Emails(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("Emails(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Emails(%q)[%d] = %q, want %q", tt.value, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRecord(t *testing.T) {
	raw := records.RawRecord{
		CompanyName: "  Gulf Oilfield Services   L.L.C. ",
		Phone:       "04 337 1123",
		Email:       "ops@gulfoil.ae; bad-email",
		Source:      records.SourceDubaiChamber,
	}

	id := Record(&raw)

	if id.DisplayName != "Gulf Oilfield Services L.L.C." {
		t.Errorf("DisplayName = %q", id.DisplayName)
	}
	if id.NameKey != "gulf oilfield services llc" {
		t.Errorf("NameKey = %q", id.NameKey)
	}
	if id.PhoneKey != "97143371123" {
		t.Errorf("PhoneKey = %q", id.PhoneKey)
	}
	if id.PrimaryEmail != "ops@gulfoil.ae" {
		t.Errorf("PrimaryEmail = %q", id.PrimaryEmail)
	}
	if len(id.Notes) != 0 {
		t.Errorf("Notes = %v, want none (one address validated)", id.Notes)
	}
}

func TestRecordInvalidContactNotes(t *testing.T) {
	raw := records.RawRecord{
		CompanyName: "Desert Rose Trading",
		Phone:       "123",
		Email:       "not-an-email",
		Source:      records.SourceDubaiDED,
	}

	id := Record(&raw)

	if id.PhoneKey != "" || id.PrimaryEmail != "" {
		t.Fatalf("expected absent contact keys, got phone=%q email=%q", id.PhoneKey, id.PrimaryEmail)
	}

	hasEmail, hasPhone := false, false
	for _, note := range id.Notes {
		switch note {
		case records.NoteEmailInvalidRemoved:
			hasEmail = true
		case records.NotePhoneInvalidRemoved:
			hasPhone = true
		}
	}
	if !hasEmail || !hasPhone {
		t.Errorf("Notes = %v, want both invalid-contact notes", id.Notes)
	}
}
