package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/go-cmp/cmp"

	"github.com/outreachworks/dirmerge/pkg/records"
)

func TestWrite(t *testing.T) {
	seen, err := utc.Parse(time.RFC3339, "2026-08-30T09:15:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	recs := []*records.CanonicalRecord{
		{
			CompanyName:      "Gulf Oilfield Services LLC",
			BusinessActivity: "Oilfield equipment trading",
			Phone:            "04 337 1123",
			Email:            "ops@gulfoil.ae",
			Emirate:          "Dubai",
			SourceURL:        "https://chamber.example/gulf",
			Sources:          records.NewSourceSet(records.SourceDubaiChamber, records.SourceDubaiDED),
			ActivityCodes:    records.NewStringSet("06-10"),
			Notes:            records.NewNoteSet("contact_conflict_lower_priority"),
			LastSeen:         seen,
		},
		{
			CompanyName: "Quiet Ventures",
			Sources:     records.NewSourceSet(records.SourceMOEGrowth),
			Notes:       records.NewNoteSet(records.NoteNoContactInfo),
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, recs); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	want := [][]string{
		Columns,
		{
			"Gulf Oilfield Services LLC", "Oilfield equipment trading",
			"04 337 1123", "ops@gulfoil.ae", "dubai_chamber,dubai_ded",
			"Dubai", "06-10", "https://chamber.example/gulf",
			"2026-08-30T09:15:00Z", "contact_conflict_lower_priority",
		},
		{
			"Quiet Ventures", "", "", "", "moe_growth_manual",
			"", "", "", "", "no_contact_info",
		},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// Absent fields are empty cells, never a placeholder token.
func TestAbsentFieldsStayEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []*records.CanonicalRecord{{CompanyName: "Bare Co"}})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	for i, cell := range rows[1][1:] {
		if cell != "" {
			t.Errorf("column %s = %q, want empty", Columns[i+1], cell)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "companies.csv")
	err := WriteFile(path, []*records.CanonicalRecord{{CompanyName: "Bare Co"}})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output file")
	}
}
