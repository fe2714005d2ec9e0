package etl

import (
	"fmt"
	"strings"

	"github.com/BartekS5/sales-etl/pkg/models"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRecord checks that a record coming from outside the primary store can
// be cleaned at all. Missing category, region or amount are fine; Clean fills them.
func (v *Validator) ValidateRecord(r models.RawRecord) error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("missing required field: transaction_id")
	}
	if strings.TrimSpace(r.ProductName) == "" {
		return fmt.Errorf("transaction %s: missing required field: product_name", r.TransactionID)
	}
	if r.TransactionDate.IsZero() {
		return fmt.Errorf("transaction %s: missing required field: transaction_date", r.TransactionID)
	}
	if r.State != models.StatePending {
		return fmt.Errorf("transaction %s: expected pending record, got %s", r.TransactionID, r.State)
	}
	return nil
}
