package comparator

import "github.com/loomhq/loom/internal/schema"

// satisfiesDate evaluates the date comparator family on UTC epoch
// millisecond instants. Unparseable operands yield false.
func satisfiesDate(value any, cmp schema.Comparator, expected any) bool {
	got, ok := asInstant(value)
	if !ok {
		return false
	}

	if cmp == schema.CompBetween {
		list, isList := expected.([]any)
		if !isList || len(list) != 2 {
			return false
		}
		lo, ok := asInstant(list[0])
		if !ok {
			return false
		}
		hi, ok := asInstant(list[1])
		if !ok {
			return false
		}
		return got >= lo && got <= hi
	}

	want, ok := asInstant(expected)
	if !ok {
		return false
	}
	switch cmp {
	case schema.CompIs:
		return got == want
	case schema.CompBefore:
		return got < want
	case schema.CompAfter:
		return got > want
	}
	return false
}
