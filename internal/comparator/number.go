package comparator

import (
	"github.com/shopspring/decimal"

	"github.com/loomhq/loom/internal/schema"
)

// satisfiesNumber evaluates the ordered numeric comparator family. All
// operands coerce through a decimal parse; a failed parse yields false.
func satisfiesNumber(value any, cmp schema.Comparator, expected any) bool {
	got, ok := asDecimal(value)
	if !ok {
		return false
	}

	if cmp == schema.CompBetween {
		lo, hi, ok := decimalRange(expected)
		if !ok {
			return false
		}
		return got.GreaterThanOrEqual(lo) && got.LessThanOrEqual(hi)
	}

	want, ok := asDecimal(expected)
	if !ok {
		return false
	}
	switch cmp {
	case schema.CompIs:
		return got.Equal(want)
	case schema.CompIsNot:
		return !got.Equal(want)
	case schema.CompGreaterThan:
		return got.GreaterThan(want)
	case schema.CompLessThan:
		return got.LessThan(want)
	}
	return false
}

// decimalRange reads an inclusive [low, high] pair from a two-element
// list.
func decimalRange(expected any) (lo, hi decimal.Decimal, ok bool) {
	list, isList := expected.([]any)
	if !isList || len(list) != 2 {
		return lo, hi, false
	}
	lo, ok = asDecimal(list[0])
	if !ok {
		return lo, hi, false
	}
	hi, ok = asDecimal(list[1])
	return lo, hi, ok
}
