package etl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BartekS5/sales-etl/pkg/logger"
	"github.com/BartekS5/sales-etl/pkg/models"
)

// SQLExtractor reads pending sales rows from the primary store and merges in a
// supplemental source.
type SQLExtractor struct {
	DB      *sql.DB
	Dialect Dialect
	Source  SupplementalSource
}

func NewSQLExtractor(db *sql.DB, dialect Dialect, supplemental SupplementalSource) *SQLExtractor {
	if supplemental == nil {
		supplemental = StaticSource{}
	}
	return &SQLExtractor{DB: db, Dialect: dialect, Source: supplemental}
}

func (s *SQLExtractor) FetchPending(ctx context.Context) ExtractResult {
	records, err := s.queryPending(ctx)
	if err != nil {
		logger.Errorf("Error during extraction: %v", err)
		return ExtractResult{Records: []models.RawRecord{}, Outcome: failed(err)}
	}

	logger.Infof("Extracted %d records from database", len(records))
	return ExtractResult{Records: records, Outcome: countOutcome(len(records))}
}

func (s *SQLExtractor) queryPending(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := s.DB.QueryContext(ctx, s.Dialect.SelectPending())
	if err != nil {
		return nil, fmt.Errorf("query pending rows: %w", err)
	}
	defer rows.Close()

	records := []models.RawRecord{}
	for rows.Next() {
		var r models.RawRecord
		if err := rows.Scan(
			&r.TransactionID,
			&r.CustomerID,
			&r.ProductName,
			&r.Category,
			&r.Amount,
			&r.TransactionDate,
			&r.Region,
		); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		r.State = models.StateFromMarker(false)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}
	return records, nil
}

func (s *SQLExtractor) Supplemental(ctx context.Context) ExtractResult {
	records, err := s.Source.Records(ctx)
	if err != nil {
		logger.Errorf("Error reading %s records: %v", s.Source.Name(), err)
		return ExtractResult{Records: []models.RawRecord{}, Outcome: failed(err)}
	}

	logger.Infof("Extracted %d records from %s", len(records), s.Source.Name())
	return ExtractResult{Records: records, Outcome: countOutcome(len(records))}
}
