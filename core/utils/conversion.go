package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToString converts various types to string. Warehouse form values arrive
// loosely typed (string, number, bytes), so everything funnels through here
// before further interpretation.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		// JSON numbers decode to float64; render integers without the
		// trailing ".0000..." noise.
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToDecimal converts various types to a decimal, returning zero for
// anything that does not parse. Quantities and prices in historical
// documents are stored as free text.
func ToDecimal(val any) decimal.Decimal {
	switch v := val.(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		s := strings.TrimSpace(ToString(val))
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
}

// ToBool converts various types to bool. Checkbox values come back as
// bool, "1", or "true" depending on the form generation.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case float64:
		return v == 1
	default:
		return false
	}
}
