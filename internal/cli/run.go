package cli

import (
	"github.com/spf13/cobra"

	"github.com/BartekS5/sales-etl/internal/etl"
)

type RunOptions struct {
	DryRun     bool
	Strict     bool
	SampleSize int
	LogFile    string
}

func NewRunCmd() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the extract, transform, load and verify pipeline once",
		RunE: func(c *cobra.Command, args []string) error {
			return runPipeline(c, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Extract and transform only; write nothing")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when any stage reports a store failure")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample-size", "s", 0, "Rows to show in the verification sample (default from ETL_SAMPLE_SIZE)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Also append logs to this file (default from ETL_LOG_FILE)")

	return cmd
}

func NewInitSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the processed_sales_data table if it does not exist",
		RunE: func(c *cobra.Command, args []string) error {
			return runInitSchema(c)
		},
	}
}

func NewVerifyCmd() *cobra.Command {
	var sampleSize int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Show the processed row count and the most recently loaded rows",
		RunE: func(c *cobra.Command, args []string) error {
			return runVerify(c, sampleSize)
		},
	}

	cmd.Flags().IntVarP(&sampleSize, "sample-size", "s", etl.DefaultSampleSize, "Rows to show in the sample")
	return cmd
}
