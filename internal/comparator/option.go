package comparator

import "github.com/loomhq/loom/internal/schema"

// satisfiesSingleValue evaluates single-select, user, and card-status
// comparators. Equality is on the selection's value code - two options
// with the same code are the same selection whatever their labels say.
func satisfiesSingleValue(value any, cmp schema.Comparator, expected any) bool {
	got, ok := optionCode(value)
	if !ok {
		return false
	}

	switch cmp {
	case schema.CompIs:
		want, ok := optionCode(expected)
		return ok && got == want
	case schema.CompIsNot:
		want, ok := optionCode(expected)
		return ok && got != want
	case schema.CompIsOneOf:
		allowed := optionCodes(expected)
		if len(allowed) == 0 {
			return false
		}
		for _, code := range allowed {
			if code == got {
				return true
			}
		}
		return false
	}
	return false
}

// satisfiesMultiValue evaluates multi-select and user-list comparators
// over value-code sets.
func satisfiesMultiValue(value any, cmp schema.Comparator, expected any) bool {
	got := codeSet(optionCodes(value))
	want := optionCodes(expected)
	if len(want) == 0 {
		return false
	}

	switch cmp {
	case schema.CompIncludesAll:
		for _, code := range want {
			if !got[code] {
				return false
			}
		}
		return true
	case schema.CompIncludesOneOf:
		for _, code := range want {
			if got[code] {
				return true
			}
		}
		return false
	case schema.CompExcludes:
		for _, code := range want {
			if got[code] {
				return false
			}
		}
		return true
	}
	return false
}

// satisfiesPayWall evaluates the pay-wall state comparator. The state is
// a boolean flag; only equality is legal.
func satisfiesPayWall(value any, cmp schema.Comparator, expected any) bool {
	if cmp != schema.CompIs {
		return false
	}
	got, ok := asBool(value)
	if !ok {
		return false
	}
	want, ok := asBool(expected)
	return ok && got == want
}

func asBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		if val == "true" {
			return true, true
		}
		if val == "false" {
			return false, true
		}
	}
	return false, false
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
