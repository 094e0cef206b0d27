package localdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachworks/dirmerge/pkg/records"
)

func writeCapture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFetchReplaysFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "batch_002.csv",
		"company_name,phone,email\nBravo Co,04 222 2222,\n")
	writeCapture(t, dir, "batch_001.csv",
		"company_name,phone,email\nAlpha Co,04 111 1111,info@alpha.ae\n")

	src := New(records.SourceDubaiDED, dir)
	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, batch.Len())
	assert.Equal(t, "Alpha Co", batch.Records[0].CompanyName, "lexical file order")
	assert.Equal(t, "Bravo Co", batch.Records[1].CompanyName)
	assert.Equal(t, records.SourceDubaiDED, batch.Records[0].Source,
		"source tag is forced, never read from the file")
}

func TestFetchMissingDirYieldsEmptyBatch(t *testing.T) {
	src := New(records.SourceMOEGrowth, filepath.Join(t.TempDir(), "absent"))
	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Len())
}

func TestReadFileHeaderDriven(t *testing.T) {
	dir := t.TempDir()
	// Columns out of order, with extras, a BOM on the header, and a short row.
	writeCapture(t, dir, "batch.csv",
		"\ufeffemail,company_name,portal_page,activity_code,notes,last_seen_utc\n"+
			"ops@gulfoil.ae,Gulf Oilfield Services LLC,3,06-10,email_invalid_removed;seen_twice,2026-08-12T09:00:00Z\n"+
			"x@y.ae,Short Row Co\n")

	src := New(records.SourceDubaiChamber, dir)
	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	first := batch.Records[0]
	assert.Equal(t, "Gulf Oilfield Services LLC", first.CompanyName)
	assert.Equal(t, "ops@gulfoil.ae", first.Email)
	assert.Equal(t, "06-10", first.ActivityCode)
	assert.Equal(t, []string{"email_invalid_removed", "seen_twice"}, first.Notes)
	assert.Equal(t, "2026-08-12T09:00:00Z", first.ObservedAt.Format("2006-01-02T15:04:05Z"))

	second := batch.Records[1]
	assert.Equal(t, "Short Row Co", second.CompanyName)
	assert.Empty(t, second.ActivityCode, "missing cells read as absent")
}

func TestObservedAtFallsBackToNow(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "batch.csv", "company_name\nNo Timestamp Co\n")

	src := New(records.SourceSharjahSEDD, dir)
	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, batch.Len())
	assert.False(t, batch.Records[0].ObservedAt.IsZero())
}

func TestFetchCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "batch.csv", "company_name\nAlpha Co\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := New(records.SourceDubaiDED, dir)
	_, err := src.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
