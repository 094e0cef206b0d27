package provenance

import (
	"strings"
	"testing"

	"github.com/outreachworks/dirmerge/pkg/records"
)

func TestTrackAndCurrent(t *testing.T) {
	tr := NewTracker()

	tr.Track("c00001", "phone", Provenance{
		Source: records.SourceMOEGrowth,
		Value:  "050 111 2222",
		Reason: "seeded from first record",
	})
	tr.Track("c00001", "phone", Provenance{
		Source: records.SourceDubaiChamber,
		Value:  "04 333 4444",
		Reason: "overwritten by higher-priority source",
	})

	current := tr.Current("c00001", "phone")
	if current == nil {
		t.Fatal("expected a current entry")
	}
	if current.Source != records.SourceDubaiChamber || current.Value != "04 333 4444" {
		t.Errorf("current = %+v", current)
	}
	if current.Field != "phone" {
		t.Errorf("field defaulted to %q", current.Field)
	}
	if current.Timestamp.IsZero() {
		t.Error("timestamp must be stamped on track")
	}

	if got := tr.CurrentSource("c00001", "phone"); got != records.SourceDubaiChamber {
		t.Errorf("CurrentSource = %s", got)
	}
	if got := tr.CurrentSource("c00001", "email"); got != "" {
		t.Errorf("untracked field source = %q, want empty", got)
	}
}

func TestFindByRecord(t *testing.T) {
	tr := NewTracker()
	tr.Track("c00001", "phone", Provenance{Source: records.SourceDubaiDED, Value: "x"})
	tr.Track("c00001", "email", Provenance{Source: records.SourceDubaiDED, Value: "y"})
	tr.Track("c00002", "phone", Provenance{Source: records.SourceMOEGrowth, Value: "z"})

	fields := tr.FindByRecord("c00001")
	if len(fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(fields))
	}
	if _, ok := fields["phone"]; !ok {
		t.Error("missing phone history")
	}
}

func TestMapMarshalYAMLSortedKeys(t *testing.T) {
	tr := NewTracker()
	tr.Track("c00002", "phone", Provenance{Source: records.SourceDubaiDED, Value: "b"})
	tr.Track("c00001", "phone", Provenance{Source: records.SourceDubaiDED, Value: "a"})

	out, err := tr.Map().MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	text := string(out)
	if strings.Index(text, "c00001") > strings.Index(text, "c00002") {
		t.Error("provenance dump must be key-sorted for reproducibility")
	}
}

func TestClear(t *testing.T) {
	tr := NewTracker()
	tr.Track("c00001", "phone", Provenance{Source: records.SourceDubaiDED, Value: "x"})
	tr.Clear()
	if len(tr.Map()) != 0 {
		t.Error("Clear must drop all histories")
	}
}
