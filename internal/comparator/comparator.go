// Package comparator decides whether a typed property value satisfies a
// comparator. It is a library of pure functions with no state.
//
// Dispatch is by the property's declared kind crossed with the comparator
// vocabulary legal for that kind. An unrecognized (kind, comparator) pair
// is not an error: Satisfies fails closed and returns false. Malformed
// comparison values (a non-numeric string where a number is expected, an
// unparseable date) likewise yield false, never a panic or an error -
// condition evaluation must be total over persisted legacy definitions.
package comparator

import (
	"github.com/loomhq/loom/internal/schema"
)

// Satisfies reports whether value satisfies cmp against expected, under
// the property's declared kind.
func Satisfies(value any, prop schema.Property, cmp schema.Comparator, expected any) bool {
	if !schema.ComparatorLegal(prop.Kind, cmp) {
		return false
	}

	// Emptiness is kind-independent and must work on absent values.
	switch cmp {
	case schema.CompIsEmpty:
		return isEmpty(value)
	case schema.CompIsNotEmpty:
		return !isEmpty(value)
	}

	switch prop.Kind {
	case schema.PropertyShortText, schema.PropertyLongText:
		return satisfiesText(value, cmp, expected)
	case schema.PropertyNumber:
		return satisfiesNumber(value, cmp, expected)
	case schema.PropertyMilestone:
		return satisfiesNumber(milestoneCount(value), cmp, expected)
	case schema.PropertyReward:
		return satisfiesNumber(rewardAmount(value), cmp, expected)
	case schema.PropertyDate:
		return satisfiesDate(value, cmp, expected)
	case schema.PropertySingleSelect, schema.PropertyUser, schema.PropertyCardStatus:
		return satisfiesSingleValue(value, cmp, expected)
	case schema.PropertyMultiSelect, schema.PropertyUserList:
		return satisfiesMultiValue(value, cmp, expected)
	case schema.PropertyPayWall:
		return satisfiesPayWall(value, cmp, expected)
	}
	return false
}
