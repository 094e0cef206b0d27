package config

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/outreachworks/dirmerge/pkg/errors"
)

// Portals carries the portal-specific fetch configuration. It is loaded once
// at run start and handed to the collaborator implementations; the
// reconciliation engine never sees it.
type Portals struct {
	DubaiChamber Portal `yaml:"dubai_chamber"`
	DubaiDED     Portal `yaml:"dubai_ded"`
	SharjahSEDD  Portal `yaml:"sharjah_sedd"`
	MOEGrowth    Portal `yaml:"moe_growth"`

	// Keywords drive the keyword-lookup registries.
	Keywords []string `yaml:"keywords"`
}

// Portal describes one registry portal. Selector hints exist so the fetch
// collaborators survive portal markup changes without code edits.
type Portal struct {
	URL         string              `yaml:"url"`
	Selectors   map[string][]string `yaml:"selectors,omitempty"`
	FieldLabels map[string][]string `yaml:"field_labels,omitempty"`
}

// LoadPortals reads a portal config YAML file.
func LoadPortals(path string) (*Portals, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var portals Portals
	if err := yaml.Unmarshal(data, &portals); err != nil {
		return nil, errors.NewConfigError("portals", "parsing "+path, err)
	}
	return &portals, nil
}

// LoadCodes reads the activity-code list for the coded registry. The file is
// a CSV with an activity_code column, matching the capture tooling's input
// format; a BOM on the header is tolerated.
func LoadCodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &errors.ParseError{Path: path, Message: "reading header", Err: err}
	}

	codeCol := -1
	for i, name := range header {
		name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "\ufeff")
		if name == "activity_code" {
			codeCol = i
			break
		}
	}
	if codeCol < 0 {
		return nil, &errors.ParseError{Path: path, Message: "no activity_code column"}
	}

	var codes []string
	seen := make(map[string]struct{})
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ParseError{Path: path, Message: "reading row", Err: err}
		}
		if codeCol >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[codeCol])
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes, nil
}
