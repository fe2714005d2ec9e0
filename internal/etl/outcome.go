package etl

import (
	"time"

	"github.com/BartekS5/sales-etl/pkg/models"
)

// Status tells "nothing to do" apart from "the store call failed".
type Status int

const (
	// StatusSkipped is the zero value: the stage did not run.
	StatusSkipped Status = iota
	StatusOK
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is what every store-facing component operation reports instead of
// returning an error. Err is set only when Status is StatusFailed.
type Outcome struct {
	Status Status
	Err    error
}

func ok() Outcome { return Outcome{Status: StatusOK} }

func empty() Outcome { return Outcome{Status: StatusEmpty} }

func failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

func (o Outcome) Failed() bool { return o.Status == StatusFailed }

func countOutcome(n int) Outcome {
	if n == 0 {
		return empty()
	}
	return ok()
}

// ExtractResult holds records from one source. Records is empty when Failed.
type ExtractResult struct {
	Records []models.RawRecord
	Outcome
}

// CleanResult is the output of Transformer.Clean.
type CleanResult struct {
	Records    []models.CleanRecord
	Duplicates int
	Rejected   int
}

// TransformResult carries the enriched batch together with its processed count.
type TransformResult struct {
	Records     []models.TransformedRecord
	Processed   int
	ProcessedAt time.Time
}

// LoadResult counts attempted writes; Count is 0 when Failed.
type LoadResult struct {
	Count int
	Outcome
}

// VerifyReport is the post-load read-back of the results table.
type VerifyReport struct {
	Total  int64
	Sample []models.SampleRow
	Outcome
}

// OK reports whether the verification read succeeded. It asserts nothing about the counts.
func (r VerifyReport) OK() bool {
	return !r.Failed()
}
