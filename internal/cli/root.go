// Package cli wires the ETL components behind a Cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sales-etl",
		Short: "sales-etl - batch ETL for pending sales records",
		Long: `sales-etl extracts unprocessed sales rows, merges them with supplemental
external records, cleans and enriches them, and upserts the result into the
processed_sales_data table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewRunCmd(), NewInitSchemaCmd(), NewVerifyCmd())

	return rootCmd
}
