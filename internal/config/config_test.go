package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachworks/dirmerge/pkg/records"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultRawDir, cfg.RawDir)
	assert.Empty(t, cfg.Sources)
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("raw_dir", "/data/raw")
	v.Set("codes_file", "codes.csv")
	v.Set("sources", []string{"dubai_ded"})

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/data/raw", cfg.RawDir)
	assert.Equal(t, "codes.csv", cfg.CodesFile)
	assert.Equal(t, []string{"dubai_ded"}, cfg.Sources)
}

func TestSourceIDs(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
		want    []records.SourceID
		wantErr bool
	}{
		{
			name: "empty means all in priority order",
			want: records.SourceIDs(),
		},
		{
			name:    "subset keeps priority order",
			sources: []string{"moe_growth_manual", "dubai_chamber"},
			want:    []records.SourceID{records.SourceDubaiChamber, records.SourceMOEGrowth},
		},
		{
			name:    "unknown source rejected",
			sources: []string{"dubai_ded", "abu_dhabi_adgm"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Sources: tt.sources}
			ids, err := cfg.SourceIDs()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestLoadCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.csv")
	content := "\ufeffactivity_code,description\n06-10,Oilfield services\n43-22,Plumbing\n06-10,Duplicate\n,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	codes, err := LoadCodes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"06-10", "43-22"}, codes)
}

func TestLoadCodesMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.csv")
	require.NoError(t, os.WriteFile(path, []byte("code\n06-10\n"), 0o644))

	_, err := LoadCodes(path)
	require.Error(t, err)
}

func TestLoadPortals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portals.yaml")
	content := `
dubai_chamber:
  url: https://chamber.example/search
  selectors:
    result_row: [".results .row"]
dubai_ded:
  url: https://ded.example/lookup
keywords:
  - trading
  - contracting
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	portals, err := LoadPortals(path)
	require.NoError(t, err)
	assert.Equal(t, "https://chamber.example/search", portals.DubaiChamber.URL)
	assert.Equal(t, []string{".results .row"}, portals.DubaiChamber.Selectors["result_row"])
	assert.Equal(t, []string{"trading", "contracting"}, portals.Keywords)
}
