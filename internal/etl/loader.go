package etl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BartekS5/sales-etl/pkg/logger"
	"github.com/BartekS5/sales-etl/pkg/models"
)

const DefaultSampleSize = 5

// SQLLoader upserts transformed rows into the results table and marks their
// source rows processed.
type SQLLoader struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLLoader(db *sql.DB, dialect Dialect) *SQLLoader {
	return &SQLLoader{DB: db, Dialect: dialect}
}

// EnsureSchema creates the results table if it does not exist. Safe on every run.
func (l *SQLLoader) EnsureSchema(ctx context.Context) Outcome {
	if _, err := l.DB.ExecContext(ctx, l.Dialect.CreateResultsTable()); err != nil {
		logger.Errorf("Error creating processed table: %v", err)
		return failed(err)
	}
	logger.Info("Processed table created/verified")
	return ok()
}

// Upsert writes the batch in one transaction and returns the number of records
// submitted. An empty batch touches nothing.
func (l *SQLLoader) Upsert(ctx context.Context, records []models.TransformedRecord) LoadResult {
	if len(records) == 0 {
		logger.Info("No data to load")
		return LoadResult{Outcome: empty()}
	}

	if err := l.upsert(ctx, records); err != nil {
		logger.Errorf("Error during loading: %v", err)
		return LoadResult{Outcome: failed(err)}
	}

	logger.Infof("Successfully loaded %d records", len(records))
	return LoadResult{Count: len(records), Outcome: ok()}
}

func (l *SQLLoader) upsert(ctx context.Context, records []models.TransformedRecord) (err error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	mark := l.Dialect.MarkProcessed()
	for _, r := range records {
		// Guard only: the processed state lives in the marker column written below,
		// and is observed again on the next extract.
		if _, err = r.State.Advance(); err != nil {
			return fmt.Errorf("transaction %s: %w", r.TransactionID, err)
		}
		if _, err = tx.ExecContext(ctx, mark, r.ProcessedAmount, r.TransactionID); err != nil {
			return fmt.Errorf("mark %s processed: %w", r.TransactionID, err)
		}
	}

	upsert := l.Dialect.UpsertResult()
	for _, r := range records {
		if _, err = tx.ExecContext(ctx, upsert, upsertArgs(r)...); err != nil {
			return fmt.Errorf("upsert %s: %w", r.TransactionID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// upsertArgs follows the order of upsertColumns.
func upsertArgs(r models.TransformedRecord) []interface{} {
	return []interface{}{
		r.TransactionID,
		r.CustomerID,
		r.ProductName,
		r.Category,
		r.Amount,
		r.ProcessedAmount,
		r.TransactionDate,
		r.Region,
		string(r.TransactionSize),
		string(r.CustomerSegment),
		r.ProcessedAt,
	}
}

// Verify reads back the total row count and the most recently loaded rows.
// A successful read is all it reports; the numbers are for the operator.
func (l *SQLLoader) Verify(ctx context.Context, sampleSize int) VerifyReport {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	report, err := l.verify(ctx, sampleSize)
	if err != nil {
		logger.Errorf("Error verifying load: %v", err)
		return VerifyReport{Outcome: failed(err)}
	}

	logger.Infof("Total records in processed table: %d", report.Total)
	return report
}

func (l *SQLLoader) verify(ctx context.Context, sampleSize int) (VerifyReport, error) {
	var report VerifyReport
	if err := l.DB.QueryRowContext(ctx, l.Dialect.CountResults()).Scan(&report.Total); err != nil {
		return report, fmt.Errorf("count processed rows: %w", err)
	}

	rows, err := l.DB.QueryContext(ctx, l.Dialect.SampleResults(), sampleSize)
	if err != nil {
		return report, fmt.Errorf("sample processed rows: %w", err)
	}
	defer rows.Close()

	report.Sample = []models.SampleRow{}
	for rows.Next() {
		var (
			s       models.SampleRow
			size    string
			segment string
		)
		if err := rows.Scan(&s.TransactionID, &s.ProductName, &s.OriginalAmount, &s.ProcessedAmount, &size, &segment); err != nil {
			return report, fmt.Errorf("scan sample row: %w", err)
		}
		s.TransactionSize = models.TransactionSize(size)
		s.CustomerSegment = models.CustomerSegment(segment)
		report.Sample = append(report.Sample, s)
	}
	if err := rows.Err(); err != nil {
		return report, fmt.Errorf("iterate sample rows: %w", err)
	}

	report.Outcome = countOutcome(int(report.Total))
	return report, nil
}
