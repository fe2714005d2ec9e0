package etl

import (
	"context"

	"github.com/BartekS5/sales-etl/pkg/models"
)

// Extractor acquires the raw batch. Neither call returns an error: failures
// come back as an empty result with StatusFailed.
type Extractor interface {
	FetchPending(ctx context.Context) ExtractResult
	Supplemental(ctx context.Context) ExtractResult
}

// Loader persists a transformed batch and reads it back.
type Loader interface {
	EnsureSchema(ctx context.Context) Outcome
	Upsert(ctx context.Context, records []models.TransformedRecord) LoadResult
	Verify(ctx context.Context, sampleSize int) VerifyReport
}

// SupplementalSource yields records from outside the primary store. It returns
// either a complete set of well-formed records or an error, never a partial set.
type SupplementalSource interface {
	Name() string
	Records(ctx context.Context) ([]models.RawRecord, error)
}
