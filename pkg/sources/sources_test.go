package sources

import (
	"context"
	"testing"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// stubSource returns a fixed batch.
type stubSource struct {
	id    records.SourceID
	batch *Batch
}

func (s *stubSource) ID() records.SourceID { return s.id }

func (s *stubSource) Fetch(_ context.Context) (*Batch, error) {
	return s.batch, nil
}

func TestSortByPriority(t *testing.T) {
	srcs := []Source{
		&stubSource{id: records.SourceMOEGrowth},
		&stubSource{id: records.SourceDubaiChamber},
		&stubSource{id: records.SourceSharjahSEDD},
		&stubSource{id: records.SourceDubaiDED},
	}

	sorted := SortByPriority(srcs)

	want := records.SourceIDs()
	for i, src := range sorted {
		if src.ID() != want[i] {
			t.Errorf("sorted[%d] = %s, want %s", i, src.ID(), want[i])
		}
	}
	if srcs[0].ID() != records.SourceMOEGrowth {
		t.Error("input slice must not be mutated")
	}
}

func TestGated(t *testing.T) {
	inner := &stubSource{
		id: records.SourceDubaiChamber,
		batch: &Batch{
			Source:  records.SourceDubaiChamber,
			Records: []records.RawRecord{{CompanyName: "Gulf Oilfield Services LLC"}},
		},
	}
	gated := NewGated(inner, "challenge page", "resume-42")

	if gated.ID() != records.SourceDubaiChamber {
		t.Errorf("ID = %s", gated.ID())
	}

	_, err := gated.Fetch(context.Background())
	if !errors.IsBlocked(err) {
		t.Fatalf("Fetch before resume = %v, want blocked", err)
	}
	var blocked *errors.BlockedError
	if !errors.As(err, &blocked) || blocked.ResumeToken != "resume-42" {
		t.Fatalf("blocked state = %+v", blocked)
	}

	if gated.Resume("wrong-token") {
		t.Error("wrong token must not clear the gate")
	}
	if !gated.Resume("resume-42") {
		t.Fatal("matching token must clear the gate")
	}

	batch, err := gated.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch after resume: %v", err)
	}
	if batch.Len() != 1 {
		t.Errorf("batch len = %d", batch.Len())
	}
}
