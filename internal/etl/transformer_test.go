package etl

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/sales-etl/pkg/models"
)

func amount(s string) decimal.NullDecimal {
	return models.NullAmount(decimal.RequireFromString(s))
}

func rawRecord(id, amt string) models.RawRecord {
	r := models.RawRecord{
		TransactionID:   id,
		CustomerID:      1001,
		ProductName:     "Laptop",
		Category:        models.NullString("Electronics"),
		TransactionDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Region:          models.NullString("North"),
	}
	if amt != "" {
		r.Amount = amount(amt)
	}
	return r
}

func fixedClock(t time.Time) *Transformer {
	return &Transformer{Now: func() time.Time { return t }}
}

func TestClean(t *testing.T) {
	tr := NewTransformer()

	t.Run("Dedup keeps first occurrence", func(t *testing.T) {
		res := tr.Clean([]models.RawRecord{rawRecord("TXN001", "10.00"), rawRecord("TXN001", "99.00")})
		require.Len(t, res.Records, 1)
		assert.True(t, res.Records[0].Amount.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, 1, res.Duplicates)
	})

	t.Run("Missing category and region become Unknown", func(t *testing.T) {
		r := rawRecord("TXN002", "20.00")
		r.Category.Valid = false
		r.Region.Valid = false

		res := tr.Clean([]models.RawRecord{r})
		require.Len(t, res.Records, 1)
		assert.Equal(t, "Unknown", res.Records[0].Category)
		assert.Equal(t, "Unknown", res.Records[0].Region)
	})

	t.Run("Missing amount defaults to zero and is kept", func(t *testing.T) {
		res := tr.Clean([]models.RawRecord{rawRecord("TXN003", "")})
		require.Len(t, res.Records, 1)
		assert.True(t, res.Records[0].Amount.IsZero())
	})

	t.Run("Negative amount is dropped", func(t *testing.T) {
		res := tr.Clean([]models.RawRecord{rawRecord("TXN004", "-5"), rawRecord("TXN005", "5")})
		require.Len(t, res.Records, 1)
		assert.Equal(t, "TXN005", res.Records[0].TransactionID)
		assert.Equal(t, 1, res.Rejected)
	})

	t.Run("Dedup runs before the amount filter", func(t *testing.T) {
		res := tr.Clean([]models.RawRecord{rawRecord("TXN006", "-1"), rawRecord("TXN006", "50")})
		assert.Empty(t, res.Records)
		assert.Equal(t, 1, res.Duplicates)
		assert.Equal(t, 1, res.Rejected)
	})

	t.Run("Amounts are rounded to cents", func(t *testing.T) {
		res := tr.Clean([]models.RawRecord{rawRecord("TXN007", "0.004"), rawRecord("TXN008", "19.995"), rawRecord("TXN009", "-0.004")})
		require.Len(t, res.Records, 2)
		assert.Equal(t, "0.00", res.Records[0].Amount.StringFixed(2))
		assert.True(t, res.Records[0].Amount.Equal(decimal.Zero))
		assert.Equal(t, "20", res.Records[1].Amount.String())
		assert.Equal(t, 1, res.Rejected)
	})

	t.Run("Empty input", func(t *testing.T) {
		res := tr.Clean(nil)
		assert.NotNil(t, res.Records)
		assert.Empty(t, res.Records)
	})
}

func TestTransform(t *testing.T) {
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	tr := fixedClock(at)

	cleaned := tr.Clean([]models.RawRecord{rawRecord("TXN001", "100.00"), rawRecord("TXN002", "900.00")})
	res := tr.Transform(cleaned.Records)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, at, res.ProcessedAt)
	for _, r := range res.Records {
		assert.Equal(t, at, r.ProcessedAt)
		assert.True(t, r.ProcessedAmount.GreaterThanOrEqual(r.Amount))
	}
	assert.Equal(t, models.SegmentPremium, res.Records[1].CustomerSegment)
	assert.Equal(t, models.SizeLarge, res.Records[1].TransactionSize)

	empty := tr.Transform(nil)
	assert.Empty(t, empty.Records)
	assert.Zero(t, empty.Processed)
}

func TestProcessedAmount(t *testing.T) {
	cases := map[string]string{
		"100.00": "108.00",
		"600":    "648.00",
		"45.99":  "49.67",
		"0":      "0.00",
		"8.50":   "9.18",
	}
	for in, want := range cases {
		got := ProcessedAmount(decimal.RequireFromString(in))
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "amount %s: got %s want %s", in, got, want)
	}

	first := ProcessedAmount(decimal.RequireFromString("100.00"))
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(ProcessedAmount(decimal.RequireFromString("100.00"))))
	}
}

func TestProcessedNeverBelowOriginal(t *testing.T) {
	tr := fixedClock(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC))
	raw := []models.RawRecord{
		rawRecord("TXN900", "0.004"),
		rawRecord("TXN901", "0.0049"),
		rawRecord("TXN902", "0.01"),
		rawRecord("TXN903", "12.3456"),
		rawRecord("TXN904", "999.999"),
	}

	res := tr.Transform(tr.Clean(raw).Records)
	require.Len(t, res.Records, len(raw))
	for _, r := range res.Records {
		assert.True(t, r.ProcessedAmount.GreaterThanOrEqual(r.Amount),
			"%s: processed %s below amount %s", r.TransactionID, r.ProcessedAmount, r.Amount)
	}
}

func TestClassifyThresholds(t *testing.T) {
	sizes := map[string]models.TransactionSize{
		"0":      models.SizeSmall,
		"100.00": models.SizeSmall,
		"100.01": models.SizeMedium,
		"500.00": models.SizeMedium,
		"500.01": models.SizeLarge,
	}
	for in, want := range sizes {
		assert.Equal(t, want, ClassifySize(decimal.RequireFromString(in)), "size for %s", in)
	}

	segments := map[string]models.CustomerSegment{
		"300.00": models.SegmentBasic,
		"300.01": models.SegmentStandard,
		"800.00": models.SegmentStandard,
		"800.01": models.SegmentPremium,
	}
	for in, want := range segments {
		assert.Equal(t, want, ClassifySegment(decimal.RequireFromString(in)), "segment for %s", in)
	}
}

func TestCleanAndTransformEndToEnd(t *testing.T) {
	r := rawRecord("TXN010", "600")
	r.Category.Valid = false
	r.Region = models.NullString("West")

	tr := fixedClock(time.Now())
	cleaned := tr.Clean([]models.RawRecord{r})
	require.Len(t, cleaned.Records, 1)
	assert.Equal(t, "Unknown", cleaned.Records[0].Category)

	out := tr.Transform(cleaned.Records).Records[0]
	assert.Equal(t, "648.00", out.ProcessedAmount.StringFixed(2))
	assert.Equal(t, models.SizeLarge, out.TransactionSize)
	assert.Equal(t, models.SegmentStandard, out.CustomerSegment)
	assert.Equal(t, "West", out.Region)
}
