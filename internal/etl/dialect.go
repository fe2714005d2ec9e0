package etl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BartekS5/sales-etl/internal/config"
)

const (
	sourceTable  = "sales_data"
	resultsTable = "processed_sales_data"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// upsertColumns is the argument order for Dialect.UpsertResult.
var upsertColumns = []string{
	"transaction_id", "customer_id", "product_name", "category", "original_amount",
	"processed_amount", "transaction_date", "region", "transaction_size",
	"customer_segment", "processed_timestamp",
}

// refreshedColumns are overwritten when a transaction_id is loaded again.
// original_amount and transaction_date stay as first written.
var refreshedColumns = []string{"processed_amount", "transaction_size", "customer_segment"}

const sampleColumns = "transaction_id, product_name, original_amount, processed_amount, transaction_size, customer_segment"

// Dialect renders the statements the extractor and loader need for one SQL engine.
type Dialect interface {
	Name() string
	CreateResultsTable() string
	SelectPending() string
	MarkProcessed() string
	UpsertResult() string
	CountResults() string
	SampleResults() string
}

// DialectFor picks the dialect matching a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return postgresDialect{}, nil
	case config.DriverSQLServer:
		return sqlServerDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func selectPending() string {
	return "SELECT transaction_id, customer_id, product_name, category, amount, transaction_date, region FROM " +
		sourceTable + " WHERE processed_amount IS NULL"
}

func countResults() string {
	return "SELECT COUNT(*) FROM " + resultsTable
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return config.DriverPostgres }

func (postgresDialect) CreateResultsTable() string {
	return `CREATE TABLE IF NOT EXISTS ` + resultsTable + ` (
	id SERIAL PRIMARY KEY,
	transaction_id VARCHAR(50) UNIQUE NOT NULL,
	customer_id INTEGER NOT NULL,
	product_name VARCHAR(100) NOT NULL,
	category VARCHAR(50) NOT NULL,
	original_amount DECIMAL(10,2) NOT NULL,
	processed_amount DECIMAL(10,2) NOT NULL,
	transaction_date DATE NOT NULL,
	region VARCHAR(50) NOT NULL,
	transaction_size VARCHAR(20) NOT NULL,
	customer_segment VARCHAR(20) NOT NULL,
	processed_timestamp TIMESTAMP NOT NULL,
	load_timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`
}

func (postgresDialect) SelectPending() string { return selectPending() }

func (postgresDialect) MarkProcessed() string {
	return "UPDATE " + sourceTable + " SET processed_amount = $1 WHERE transaction_id = $2"
}

func (postgresDialect) UpsertResult() string {
	placeholders := make([]string, len(upsertColumns))
	for i := range upsertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sets := make([]string, 0, len(refreshedColumns)+1)
	for _, col := range refreshedColumns {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	sets = append(sets, "load_timestamp = CURRENT_TIMESTAMP")

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (transaction_id) DO UPDATE SET %s",
		resultsTable, strings.Join(upsertColumns, ", "), strings.Join(placeholders, ", "), strings.Join(sets, ", "))
}

func (postgresDialect) CountResults() string { return countResults() }

func (postgresDialect) SampleResults() string {
	return "SELECT " + sampleColumns + " FROM " + resultsTable + " ORDER BY load_timestamp DESC LIMIT $1"
}

type sqlServerDialect struct{}

func (sqlServerDialect) Name() string { return config.DriverSQLServer }

func (sqlServerDialect) CreateResultsTable() string {
	return `IF OBJECT_ID(N'` + resultsTable + `', N'U') IS NULL
CREATE TABLE ` + resultsTable + ` (
	id INT IDENTITY(1,1) PRIMARY KEY,
	transaction_id NVARCHAR(50) NOT NULL UNIQUE,
	customer_id INT NOT NULL,
	product_name NVARCHAR(100) NOT NULL,
	category NVARCHAR(50) NOT NULL,
	original_amount DECIMAL(10,2) NOT NULL,
	processed_amount DECIMAL(10,2) NOT NULL,
	transaction_date DATE NOT NULL,
	region NVARCHAR(50) NOT NULL,
	transaction_size NVARCHAR(20) NOT NULL,
	customer_segment NVARCHAR(20) NOT NULL,
	processed_timestamp DATETIME2 NOT NULL,
	load_timestamp DATETIME2 NOT NULL DEFAULT SYSDATETIME()
)`
}

func (sqlServerDialect) SelectPending() string { return selectPending() }

func (sqlServerDialect) MarkProcessed() string {
	return "UPDATE " + sourceTable + " SET processed_amount = @p1 WHERE transaction_id = @p2"
}

func (sqlServerDialect) UpsertResult() string {
	source := make([]string, len(upsertColumns))
	values := make([]string, len(upsertColumns))
	for i, col := range upsertColumns {
		source[i] = fmt.Sprintf("@p%d AS %s", i+1, col)
		values[i] = "source." + col
	}
	sets := make([]string, 0, len(refreshedColumns)+1)
	for _, col := range refreshedColumns {
		sets = append(sets, fmt.Sprintf("%s = source.%s", col, col))
	}
	sets = append(sets, "load_timestamp = SYSDATETIME()")

	return fmt.Sprintf("MERGE %s WITH (HOLDLOCK) AS target USING (SELECT %s) AS source "+
		"ON target.transaction_id = source.transaction_id "+
		"WHEN MATCHED THEN UPDATE SET %s "+
		"WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s);",
		resultsTable, strings.Join(source, ", "), strings.Join(sets, ", "),
		strings.Join(upsertColumns, ", "), strings.Join(values, ", "))
}

func (sqlServerDialect) CountResults() string { return countResults() }

func (sqlServerDialect) SampleResults() string {
	return "SELECT TOP (@p1) " + sampleColumns + " FROM " + resultsTable + " ORDER BY load_timestamp DESC"
}
