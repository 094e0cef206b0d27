package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/outreachworks/dirmerge/internal/config"
	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/normalize"
	"github.com/outreachworks/dirmerge/pkg/records"
	"github.com/outreachworks/dirmerge/pkg/sources/localdir"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check captured batches without merging",
	Long: `Parse the captured raw batches and report per-record validation findings
without running any merge.

Findings are the same checks the run applies: missing company names, invalid
phone or email values, and records with no usable contact field.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("raw-dir", "", "captured batch tree (raw/<source>/*.csv)")
}

func runValidate(cobraCmd *cobra.Command, _ []string) error {
	ctx := cobraCmd.Context()

	_ = viper.BindPFlag("raw_dir", cobraCmd.Flags().Lookup("raw-dir"))

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	ids, err := cfg.SourceIDs()
	if err != nil {
		return err
	}

	var total, findings int
	for _, id := range ids {
		src := localdir.New(id, filepath.Join(cfg.RawDir, id.String()))
		batch, err := src.Fetch(ctx)
		if err != nil {
			if errors.IsBlocked(err) {
				continue
			}
			return err
		}

		for i := range batch.Records {
			total++
			for _, finding := range inspect(&batch.Records[i]) {
				findings++
				fmt.Printf("%s row %d: %s (%s)\n", id, i+1, finding, batch.Records[i].CompanyName)
			}
		}
	}

	fmt.Printf("\nChecked %d records, %d findings\n", total, findings)
	return nil
}

// inspect returns the validation findings for one raw record.
func inspect(raw *records.RawRecord) []string {
	var findings []string

	if strings.TrimSpace(raw.CompanyName) == "" {
		findings = append(findings, "missing company name")
		return findings
	}

	id := normalize.Record(raw)
	for _, note := range id.Notes {
		switch note {
		case records.NoteEmailInvalidRemoved:
			findings = append(findings, "invalid email "+raw.Email)
		case records.NotePhoneInvalidRemoved:
			findings = append(findings, "invalid phone "+raw.Phone)
		}
	}
	if id.PhoneKey == "" && len(id.EmailKeys) == 0 {
		findings = append(findings, "no usable contact field")
	}

	return findings
}
