//go:build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/sales-etl/internal/config"
	"github.com/BartekS5/sales-etl/internal/etl"
	"github.com/BartekS5/sales-etl/pkg/database"
)

const testTransactionID = "TXN_IT_001"

func TestPipelineAgainstPostgres(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	if cfg.DB.Driver != config.DriverPostgres {
		t.Skipf("integration test targets postgres, DB_DRIVER=%s", cfg.DB.Driver)
	}

	db, err := database.ConnectSQL(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		t.Fatalf("Failed to connect to SQL: %v", err)
	}
	defer db.Close()

	dialect, err := etl.DialectFor(cfg.DB.Driver)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prepareSource(t, ctx, db)
	cleanupTestData(ctx, db)
	defer cleanupTestData(context.Background(), db)
	insertPendingSale(t, ctx, db)

	pipeline := etl.NewPipeline(
		etl.NewSQLExtractor(db, dialect, etl.StaticSource{}),
		etl.NewTransformer(),
		etl.NewSQLLoader(db, dialect),
		etl.DefaultSampleSize,
		false,
	)
	summary, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.FailedStages())
	assert.True(t, summary.Verified)

	var (
		processed decimal.Decimal
		size      string
		segment   string
		category  string
	)
	err = db.QueryRowContext(ctx,
		"SELECT processed_amount, transaction_size, customer_segment, category FROM processed_sales_data WHERE transaction_id = $1",
		testTransactionID).Scan(&processed, &size, &segment, &category)
	if err != nil {
		t.Fatalf("Failed to read processed row: %v", err)
	}
	assert.True(t, processed.Equal(decimal.RequireFromString("648.00")), "processed_amount = %s", processed)
	assert.Equal(t, "Large", size)
	assert.Equal(t, "Standard", segment)
	assert.Equal(t, "Unknown", category)

	var marker sql.NullString
	err = db.QueryRowContext(ctx, "SELECT processed_amount FROM sales_data WHERE transaction_id = $1", testTransactionID).Scan(&marker)
	require.NoError(t, err)
	assert.True(t, marker.Valid, "source row should be marked processed")

	// A second run finds nothing pending for the test row and leaves one result row.
	_, err = pipeline.Run(ctx)
	require.NoError(t, err)

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM processed_sales_data WHERE transaction_id = $1", testTransactionID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func prepareSource(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS sales_data (
	id SERIAL PRIMARY KEY,
	transaction_id VARCHAR(50) UNIQUE NOT NULL,
	customer_id INTEGER NOT NULL,
	product_name VARCHAR(100) NOT NULL,
	category VARCHAR(50),
	amount DECIMAL(10,2),
	transaction_date DATE NOT NULL,
	region VARCHAR(50),
	processed_amount DECIMAL(10,2)
)`)
	if err != nil {
		t.Fatalf("Failed to create source table: %v", err)
	}
}

func insertPendingSale(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()
	_, err := db.ExecContext(ctx,
		`INSERT INTO sales_data (transaction_id, customer_id, product_name, category, amount, transaction_date, region)
		VALUES ($1, $2, $3, NULL, $4, $5, $6)`,
		testTransactionID, 1010, "Standing Desk", "600.00", time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), "West")
	if err != nil {
		t.Fatalf("Failed to insert test sale: %v", err)
	}
}

func cleanupTestData(ctx context.Context, db *sql.DB) {
	db.ExecContext(ctx, "DELETE FROM processed_sales_data WHERE transaction_id = $1", testTransactionID)
	db.ExecContext(ctx, "DELETE FROM sales_data WHERE transaction_id = $1", testTransactionID)
}
