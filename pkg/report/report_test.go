package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachworks/dirmerge/pkg/records"
)

func TestCounters(t *testing.T) {
	r := New()

	r.CountRecord(records.SourceDubaiChamber, "06-10")
	r.CountRecord(records.SourceDubaiChamber, "06-10")
	r.CountRecord(records.SourceDubaiDED, "")
	r.CountNew()
	r.CountMerge(TierStrong)
	r.CountMerge(TierStrong)
	r.CountMerge(TierFallback)
	r.CountRejected()
	r.CountExactDuplicate()
	r.CountAmbiguous()
	r.CountNoContact()
	r.CountInvalidEmail()
	r.CountInvalidPhone()

	assert.Equal(t, 2, r.SourceCount(records.SourceDubaiChamber))
	assert.Equal(t, 1, r.SourceCount(records.SourceDubaiDED))
	assert.Equal(t, 0, r.SourceCount(records.SourceMOEGrowth))
	assert.Equal(t, 2, r.UnitCount(records.SourceDubaiChamber, "06-10"))
	assert.Equal(t, 2, r.Merges(TierStrong))
	assert.Equal(t, 1, r.Merges(TierFallback))
	assert.Equal(t, 1, r.NewRecords())
	assert.Equal(t, 1, r.Rejected())
	assert.Equal(t, 1, r.ExactDuplicates())
	assert.Equal(t, 1, r.Ambiguous())
	assert.Equal(t, 1, r.NoContact())
}

func TestZeroUnits(t *testing.T) {
	r := New()
	r.ExpectUnits(records.SourceDubaiChamber, []string{"06-10", "43-22", "10-11"})

	r.CountRecord(records.SourceDubaiChamber, "06-10")
	r.CountRecord(records.SourceDubaiChamber, "10-11")

	zeros := r.ZeroUnits()
	require.Len(t, zeros, 1)
	assert.Equal(t, records.SourceDubaiChamber, zeros[0].Source)
	assert.Equal(t, "43-22", zeros[0].Unit)
}

func TestSummaryFlagsZeroUnits(t *testing.T) {
	r := New()
	r.ExpectUnits(records.SourceDubaiChamber, []string{"43-22"})
	r.Finalize()

	summary := r.Summary()
	assert.Contains(t, summary, "Zero-result query units")
	assert.Contains(t, summary, "dubai_chamber/43-22")
}

func TestSummaryWithoutZeroUnits(t *testing.T) {
	r := New()
	r.CountRecord(records.SourceDubaiDED, "")
	r.Finalize()

	summary := r.Summary()
	assert.NotContains(t, summary, "Zero-result")
	assert.Contains(t, summary, "dubai_ded")
}

func TestWriteYAML(t *testing.T) {
	r := New()
	r.ExpectUnits(records.SourceDubaiChamber, []string{"06-10", "43-22"})
	r.CountRecord(records.SourceDubaiChamber, "06-10")
	r.CountNew()
	r.CountMerge(TierStrong)
	r.Finalize()

	var buf bytes.Buffer
	require.NoError(t, r.WriteYAML(&buf))

	out := buf.String()
	assert.Contains(t, out, "dubai_chamber: 1")
	assert.Contains(t, out, "new_records: 1")
	assert.Contains(t, out, "strong_merges: 1")
	assert.Contains(t, out, "zero_units:")
	assert.Contains(t, out, "43-22")
	// Sources render in priority order.
	assert.Less(t, strings.Index(out, "dubai_chamber"), strings.Index(out, "moe_growth_manual"))
}
