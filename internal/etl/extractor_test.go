package etl

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/sales-etl/pkg/models"
)

var pendingColumns = []string{"transaction_id", "customer_id", "product_name", "category", "amount", "transaction_date", "region"}

type failingSource struct{}

func (failingSource) Name() string { return "failing source" }

func (failingSource) Records(context.Context) ([]models.RawRecord, error) {
	return nil, fmt.Errorf("feed unavailable")
}

func TestFetchPending(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Scans rows including nulls", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(pendingColumns).
			AddRow("TXN001", int64(1001), "Laptop", "Electronics", "1200.00", date, "North").
			AddRow("TXN010", int64(1010), "Chair", nil, nil, date, "West")
		mock.ExpectQuery(regexp.QuoteMeta(postgresDialect{}.SelectPending())).WillReturnRows(rows)

		ext := NewSQLExtractor(db, postgresDialect{}, nil)
		res := ext.FetchPending(context.Background())

		require.Equal(t, StatusOK, res.Status)
		require.Len(t, res.Records, 2)
		assert.Equal(t, "TXN001", res.Records[0].TransactionID)
		assert.True(t, res.Records[0].Amount.Valid)
		assert.Equal(t, "1200", res.Records[0].Amount.Decimal.String())
		assert.False(t, res.Records[1].Category.Valid)
		assert.False(t, res.Records[1].Amount.Valid)
		assert.Equal(t, models.StatePending, res.Records[1].State)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No pending rows is empty, not failed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT transaction_id").WillReturnRows(sqlmock.NewRows(pendingColumns))

		res := NewSQLExtractor(db, postgresDialect{}, nil).FetchPending(context.Background())
		assert.Equal(t, StatusEmpty, res.Status)
		assert.Empty(t, res.Records)
		assert.NoError(t, res.Err)
	})

	t.Run("Query failure degrades to failed empty result", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT transaction_id").WillReturnError(fmt.Errorf("connection refused"))

		res := NewSQLExtractor(db, postgresDialect{}, nil).FetchPending(context.Background())
		assert.Equal(t, StatusFailed, res.Status)
		assert.NotNil(t, res.Records)
		assert.Empty(t, res.Records)
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "connection refused")
	})

	t.Run("Row error discards partial results", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(pendingColumns).
			AddRow("TXN001", int64(1001), "Laptop", "Electronics", "1200.00", date, "North").
			AddRow("TXN002", int64(1002), "Mouse", "Electronics", "25.00", date, "South").
			RowError(1, fmt.Errorf("network reset"))
		mock.ExpectQuery("SELECT transaction_id").WillReturnRows(rows)

		res := NewSQLExtractor(db, postgresDialect{}, nil).FetchPending(context.Background())
		assert.Equal(t, StatusFailed, res.Status)
		assert.Empty(t, res.Records)
	})
}

func TestSupplemental(t *testing.T) {
	t.Run("Static source", func(t *testing.T) {
		res := NewSQLExtractor(nil, postgresDialect{}, nil).Supplemental(context.Background())
		require.Equal(t, StatusOK, res.Status)
		require.Len(t, res.Records, 3)

		ids := []string{res.Records[0].TransactionID, res.Records[1].TransactionID, res.Records[2].TransactionID}
		assert.Equal(t, []string{"TXN006", "TXN007", "TXN008"}, ids)
		assert.Equal(t, "450", res.Records[1].Amount.Decimal.String())

		v := NewValidator()
		for _, r := range res.Records {
			assert.NoError(t, v.ValidateRecord(r))
		}
	})

	t.Run("Static source is pure", func(t *testing.T) {
		a, _ := StaticSource{}.Records(context.Background())
		b, _ := StaticSource{}.Records(context.Background())
		assert.Equal(t, a, b)
	})

	t.Run("Failing source degrades to failed empty result", func(t *testing.T) {
		res := NewSQLExtractor(nil, postgresDialect{}, failingSource{}).Supplemental(context.Background())
		assert.Equal(t, StatusFailed, res.Status)
		assert.Empty(t, res.Records)
		assert.EqualError(t, res.Err, "feed unavailable")
	})
}
