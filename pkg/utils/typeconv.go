package utils

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConvertDateTime parses the date shapes seen in external feeds.
func ConvertDateTime(val interface{}) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case string:
		formats := []string{
			time.RFC3339,
			time.RFC3339Nano,
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		for _, f := range formats {
			if t, err := time.Parse(f, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to parse datetime: %s", v)
	case []byte:
		return ConvertDateTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to datetime", val)
	}
}

func ConvertToInt64(val interface{}) (int64, error) {
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("cannot convert fractional %v to int", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case []byte:
		return ConvertToInt64(string(v))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", val)
	}
}

// ConvertToNullDecimal maps nil to an invalid NullDecimal and everything
// numeric to a valid one.
func ConvertToNullDecimal(val interface{}) (decimal.NullDecimal, error) {
	var d decimal.Decimal
	switch v := val.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case decimal.Decimal:
		d = v
	case primitive.Decimal128:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		d = parsed
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.NullDecimal{}, fmt.Errorf("cannot convert %v to decimal", v)
		}
		d = decimal.NewFromFloat(v)
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		d = parsed
	default:
		return decimal.NullDecimal{}, fmt.Errorf("cannot convert %T to decimal", val)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// ConvertToNullString maps nil and blank strings to an invalid NullString.
func ConvertToNullString(val interface{}) sql.NullString {
	if val == nil {
		return sql.NullString{}
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", val))
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
