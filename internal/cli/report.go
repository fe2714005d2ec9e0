package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/BartekS5/sales-etl/internal/etl"
)

func printSummary(w io.Writer, s *etl.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== ETL PIPELINE COMPLETED ===")
	fmt.Fprintf(w, "Run ID: %s\n", s.RunID)
	fmt.Fprintf(w, "Execution Time: %.2f seconds\n", s.Duration.Seconds())
	fmt.Fprintf(w, "Records Extracted: %d\n", s.Extracted)
	fmt.Fprintf(w, "Records Processed: %d\n", s.Processed)
	fmt.Fprintf(w, "Records Loaded: %d\n", s.Loaded)
	if s.DryRun {
		fmt.Fprintln(w, "Mode: dry run (nothing written)")
	}

	fmt.Fprintln(w, "Stages:")
	for _, st := range s.Stages() {
		if st.Outcome.Err != nil {
			fmt.Fprintf(w, "  %-13s %s (%v)\n", st.Name, st.Outcome.Status, st.Outcome.Err)
			continue
		}
		fmt.Fprintf(w, "  %-13s %s\n", st.Name, st.Outcome.Status)
	}

	if s.Verified {
		printVerify(w, s.Verify)
	}
}

func printVerify(w io.Writer, r etl.VerifyReport) {
	fmt.Fprintf(w, "Total records in processed table: %d\n", r.Total)
	if len(r.Sample) == 0 {
		return
	}

	fmt.Fprintln(w, "Sample of loaded data:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSACTION\tPRODUCT\tORIGINAL\tPROCESSED\tSIZE\tSEGMENT")
	for _, row := range r.Sample {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.TransactionID, row.ProductName,
			row.OriginalAmount.StringFixed(2), row.ProcessedAmount.StringFixed(2),
			row.TransactionSize, row.CustomerSegment)
	}
	tw.Flush()
}
