package etl

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BartekS5/sales-etl/pkg/models"
)

// StaticSource stands in for an external feed with a fixed, hand-authored set
// of records. It performs no IO.
type StaticSource struct{}

func (StaticSource) Name() string { return "static external source" }

func (StaticSource) Records(_ context.Context) ([]models.RawRecord, error) {
	return []models.RawRecord{
		staticRecord("TXN006", 1006, "Wireless Mouse", "Electronics", "45.99", 20, "South"),
		staticRecord("TXN007", 1007, "Office Desk", "Furniture", "450.00", 21, "North"),
		staticRecord("TXN008", 1008, "Stapler", "Stationery", "8.50", 22, "East"),
	}, nil
}

func staticRecord(id string, customer int64, product, category, amount string, day int, region string) models.RawRecord {
	return models.RawRecord{
		TransactionID:   id,
		CustomerID:      customer,
		ProductName:     product,
		Category:        models.NullString(category),
		Amount:          models.NullAmount(decimal.RequireFromString(amount)),
		TransactionDate: time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Region:          models.NullString(region),
		State:           models.StatePending,
	}
}
