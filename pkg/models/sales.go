// Package models holds the sales record shapes that flow through the
// extract, clean, transform and load stages.
package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownLabel replaces a missing category or region during cleaning.
const UnknownLabel = "Unknown"

// RawRecord is a sales row as read from the primary store or an external source.
// Category, Region and Amount may be absent.
type RawRecord struct {
	TransactionID   string
	CustomerID      int64
	ProductName     string
	Category        sql.NullString
	Amount          decimal.NullDecimal
	TransactionDate time.Time
	Region          sql.NullString
	State           ProcessingState
}

// CleanRecord is a RawRecord after null-filling and validation.
type CleanRecord struct {
	TransactionID   string
	CustomerID      int64
	ProductName     string
	Category        string
	Amount          decimal.Decimal
	TransactionDate time.Time
	Region          string
	State           ProcessingState
}

// TransformedRecord carries the derived business fields alongside the cleaned ones.
type TransformedRecord struct {
	CleanRecord
	ProcessedAmount decimal.Decimal
	TransactionSize TransactionSize
	CustomerSegment CustomerSegment
	ProcessedAt     time.Time
}

// TransactionSize buckets a sale by its original amount.
type TransactionSize string

const (
	SizeSmall  TransactionSize = "Small"
	SizeMedium TransactionSize = "Medium"
	SizeLarge  TransactionSize = "Large"
)

// CustomerSegment tiers a customer by the original amount of the sale.
type CustomerSegment string

const (
	SegmentBasic    CustomerSegment = "Basic"
	SegmentStandard CustomerSegment = "Standard"
	SegmentPremium  CustomerSegment = "Premium"
)

// SampleRow is one row of the post-load verification sample.
type SampleRow struct {
	TransactionID   string
	ProductName     string
	OriginalAmount  decimal.Decimal
	ProcessedAmount decimal.Decimal
	TransactionSize TransactionSize
	CustomerSegment CustomerSegment
}

// NullString wraps s as a valid sql.NullString.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// NullAmount wraps d as a valid decimal.NullDecimal.
func NullAmount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
