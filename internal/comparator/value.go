package comparator

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomhq/loom/internal/schema"
)

// isEmpty reports whether a property value is absent for comparison
// purposes: nil, the empty string, an empty list, or the zero time.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case time.Time:
		return val.IsZero()
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case []schema.SelectOption:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

// asString extracts a comparable string. Select options and option-shaped
// maps contribute their value code, not their label.
func asString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case schema.SelectOption:
		return val.Value, true
	case map[string]any:
		if code, ok := val["value"].(string); ok {
			return code, true
		}
	}
	return "", false
}

// asDecimal coerces a value through a decimal parse. Parse failures
// report false; callers fail closed.
func asDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case float64:
		return decimal.NewFromFloat(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case string:
		if val == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(val)
		return d, err == nil
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return asDecimal(inner)
		}
	}
	return decimal.Decimal{}, false
}

// asInstant normalizes a date value to UTC epoch milliseconds. Dates are
// compared as instants, never as calendar dates with a timezone attached.
func asInstant(v any) (int64, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return 0, false
		}
		return val.UTC().UnixMilli(), true
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t.UTC().UnixMilli(), true
		}
		if t, err := time.Parse("2006-01-02", val); err == nil {
			return t.UTC().UnixMilli(), true
		}
		return 0, false
	case int64:
		return val, true
	case float64:
		return int64(val), true
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	}
	return 0, false
}

// optionCode extracts the value code of one selection.
func optionCode(v any) (string, bool) {
	return asString(v)
}

// optionCodes extracts the value codes of a multi-valued selection.
// Unrecognized elements are dropped rather than failing the whole list.
func optionCodes(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []schema.SelectOption:
		codes := make([]string, 0, len(val))
		for _, o := range val {
			codes = append(codes, o.Value)
		}
		return codes
	case []any:
		codes := make([]string, 0, len(val))
		for _, e := range val {
			if code, ok := optionCode(e); ok {
				codes = append(codes, code)
			}
		}
		return codes
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case schema.SelectOption:
		return []string{val.Value}
	}
	return nil
}

// milestoneCount reduces a milestone property to its count.
func milestoneCount(v any) any {
	switch val := v.(type) {
	case []any:
		return len(val)
	case []string:
		return len(val)
	case map[string]any:
		if count, ok := val["count"]; ok {
			return count
		}
	}
	return v
}

// rewardAmount reduces a reward property to its numeric amount. Rewards
// persist as {chain, token, value} documents.
func rewardAmount(v any) any {
	if m, ok := v.(map[string]any); ok {
		if amount, ok := m["value"]; ok {
			return amount
		}
		return nil
	}
	return v
}
