package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/outreachworks/dirmerge"
	"github.com/outreachworks/dirmerge/internal/config"
	"github.com/outreachworks/dirmerge/pkg/logging"
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile captured batches into a contact list",
	Long: `Replay the captured raw batches, reconcile them into canonical records,
and write the contact-list CSV and run-summary YAML.

Rejected or ambiguous records degrade the run, never fail it; the exit code
is non-zero only when the run itself cannot complete.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("raw-dir", "", "captured batch tree (raw/<source>/*.csv)")
	runCmd.Flags().String("output", "", "contact-list file (default output/companies_<runstamp>.csv)")
	runCmd.Flags().String("summary", "", "run-summary file (default output/summary_<runstamp>.yaml)")
	runCmd.Flags().String("codes", "", "activity-code CSV driving zero-result flags")
	runCmd.Flags().StringSlice("sources", nil, "restrict the run to these registries")
}

func runRun(cobraCmd *cobra.Command, _ []string) error {
	ctx := cobraCmd.Context()
	logger := logging.FromContext(ctx)

	// Bind at execution time so sibling commands sharing config keys do not
	// fight over the binding during init.
	_ = viper.BindPFlag("raw_dir", cobraCmd.Flags().Lookup("raw-dir"))
	_ = viper.BindPFlag("output_path", cobraCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("summary_path", cobraCmd.Flags().Lookup("summary"))
	_ = viper.BindPFlag("codes_file", cobraCmd.Flags().Lookup("codes"))
	_ = viper.BindPFlag("sources", cobraCmd.Flags().Lookup("sources"))

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	ids, err := cfg.SourceIDs()
	if err != nil {
		return err
	}

	opts := []dirmerge.Option{
		dirmerge.WithRawDir(cfg.RawDir),
		dirmerge.WithSourceIDs(ids...),
		dirmerge.WithOutputPath(cfg.OutputPath),
		dirmerge.WithSummaryPath(cfg.SummaryPath),
	}
	if cfg.CodesFile != "" {
		codes, err := config.LoadCodes(cfg.CodesFile)
		if err != nil {
			return err
		}
		opts = append(opts, dirmerge.WithCodes(codes))
	}

	engine, err := dirmerge.New(opts...)
	if err != nil {
		return err
	}

	outcome, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(outcome.Report.Summary())
	fmt.Printf("Wrote %d records to %s\n", len(outcome.Records), outcome.OutputPath)
	fmt.Printf("Wrote run summary to %s\n", outcome.SummaryPath)

	for _, blocked := range outcome.Blocked {
		logger.Warn().
			Str("source", blocked.Source.String()).
			Str("reason", blocked.Reason).
			Str("resume_token", blocked.ResumeToken).
			Msg("Source skipped awaiting operator signal")
	}
	for _, conflict := range outcome.Conflicts {
		logger.Warn().
			Err(conflict.Err).
			Str("company", conflict.Record.CompanyName).
			Msg("Record held out for review")
	}

	return nil
}
