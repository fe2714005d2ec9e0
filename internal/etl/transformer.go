package etl

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BartekS5/sales-etl/pkg/logger"
	"github.com/BartekS5/sales-etl/pkg/models"
)

// Amounts are stored as DECIMAL(10,2).
const currencyPlaces = 2

var (
	taxMultiplier = decimal.RequireFromString("1.08")

	largeSizeThreshold  = decimal.NewFromInt(500)
	mediumSizeThreshold = decimal.NewFromInt(100)

	premiumSegmentThreshold  = decimal.NewFromInt(800)
	standardSegmentThreshold = decimal.NewFromInt(300)
)

// Transformer cleans and enriches a batch. It holds no per-run state.
type Transformer struct {
	Now func() time.Time
}

func NewTransformer() *Transformer {
	return &Transformer{Now: time.Now}
}

// Clean removes duplicate transaction IDs (first wins), fills missing amount,
// category and region, drops negative amounts and rounds the rest to cents.
func (t *Transformer) Clean(records []models.RawRecord) CleanResult {
	res := CleanResult{Records: make([]models.CleanRecord, 0, len(records))}
	if len(records) == 0 {
		return res
	}

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.TransactionID]; dup {
			res.Duplicates++
			continue
		}
		seen[r.TransactionID] = struct{}{}

		c := models.CleanRecord{
			TransactionID:   r.TransactionID,
			CustomerID:      r.CustomerID,
			ProductName:     r.ProductName,
			Category:        models.UnknownLabel,
			Amount:          decimal.Zero,
			TransactionDate: r.TransactionDate,
			Region:          models.UnknownLabel,
			State:           r.State,
		}
		if r.Amount.Valid {
			c.Amount = r.Amount.Decimal
		}
		if r.Category.Valid {
			c.Category = r.Category.String
		}
		if r.Region.Valid {
			c.Region = r.Region.String
		}

		if c.Amount.IsNegative() {
			res.Rejected++
			continue
		}
		// Match the stored DECIMAL(10,2) so the taxed amount never rounds below it.
		c.Amount = c.Amount.Round(currencyPlaces)
		res.Records = append(res.Records, c)
	}

	logger.Infof("Data cleaned. %d valid records remaining (%d duplicates, %d rejected)",
		len(res.Records), res.Duplicates, res.Rejected)
	return res
}

// Transform derives processed amount, size and segment for every record. All
// records in the batch share one processing timestamp.
func (t *Transformer) Transform(records []models.CleanRecord) TransformResult {
	res := TransformResult{Records: make([]models.TransformedRecord, 0, len(records))}
	if len(records) == 0 {
		return res
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	res.ProcessedAt = now()

	for _, c := range records {
		res.Records = append(res.Records, models.TransformedRecord{
			CleanRecord:     c,
			ProcessedAmount: ProcessedAmount(c.Amount),
			TransactionSize: ClassifySize(c.Amount),
			CustomerSegment: ClassifySegment(c.Amount),
			ProcessedAt:     res.ProcessedAt,
		})
	}
	res.Processed = len(res.Records)

	logger.Infof("Transformed %d records", res.Processed)
	return res
}

// ProcessedAmount adds the 8% tax, rounded to currency precision.
func ProcessedAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(taxMultiplier).Round(currencyPlaces)
}

// ClassifySize buckets by the original amount; exact thresholds fall to the lower bucket.
func ClassifySize(amount decimal.Decimal) models.TransactionSize {
	switch {
	case amount.GreaterThan(largeSizeThreshold):
		return models.SizeLarge
	case amount.GreaterThan(mediumSizeThreshold):
		return models.SizeMedium
	default:
		return models.SizeSmall
	}
}

// ClassifySegment tiers by the original amount, not the taxed one.
func ClassifySegment(amount decimal.Decimal) models.CustomerSegment {
	switch {
	case amount.GreaterThan(premiumSegmentThreshold):
		return models.SegmentPremium
	case amount.GreaterThan(standardSegmentThreshold):
		return models.SegmentStandard
	default:
		return models.SegmentBasic
	}
}
