package comparator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loomhq/loom/internal/schema"
)

func prop(kind schema.PropertyKind) schema.Property {
	return schema.Property{Name: "p", Kind: kind}
}

func TestSatisfies_Text(t *testing.T) {
	p := prop(schema.PropertyShortText)

	tests := []struct {
		name     string
		value    any
		cmp      schema.Comparator
		expected any
		want     bool
	}{
		{"is equal", "hello", schema.CompIs, "hello", true},
		{"is unequal", "hello", schema.CompIs, "world", false},
		{"is not", "hello", schema.CompIsNot, "world", true},
		{"contains", "hello world", schema.CompContains, "lo wo", true},
		{"does not contain", "hello", schema.CompNotContains, "xyz", true},
		{"starts with", "hello", schema.CompStartsWith, "he", true},
		{"ends with", "hello", schema.CompEndsWith, "lo", true},
		{"ends with miss", "hello", schema.CompEndsWith, "he", false},
		{"is empty on empty", "", schema.CompIsEmpty, nil, true},
		{"is empty on nil", nil, schema.CompIsEmpty, nil, true},
		{"is not empty", "x", schema.CompIsNotEmpty, nil, true},
		{"non-string value fails closed", 42, schema.CompIs, "42", false},
		{"non-string expected fails closed", "42", schema.CompIs, 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfies(tt.value, p, tt.cmp, tt.expected))
		})
	}
}

func TestSatisfies_Text_NFCNormalization(t *testing.T) {
	p := prop(schema.PropertyShortText)
	// "é" composed vs decomposed
	assert.True(t, Satisfies("café", p, schema.CompIs, "café"))
}

func TestSatisfies_Number(t *testing.T) {
	p := prop(schema.PropertyNumber)

	tests := []struct {
		name     string
		value    any
		cmp      schema.Comparator
		expected any
		want     bool
	}{
		{"is equal ints", 3, schema.CompIs, 3, true},
		{"is equal mixed types", 3, schema.CompIs, "3", true},
		{"is equal float", 3.0, schema.CompIs, 3, true},
		{"greater than", 3, schema.CompGreaterThan, 2, true},
		{"greater than strict", 2, schema.CompGreaterThan, 2, false},
		{"less than", 1, schema.CompLessThan, 2, true},
		{"between inclusive", 2, schema.CompBetween, []any{2, 5}, true},
		{"between outside", 7, schema.CompBetween, []any{2, 5}, false},
		{"between malformed", 3, schema.CompBetween, "2-5", false},
		{"parse failure fails closed", "not a number", schema.CompGreaterThan, 2, false},
		{"expected parse failure fails closed", 3, schema.CompGreaterThan, "zzz", false},
		{"nil value fails closed", nil, schema.CompIs, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfies(tt.value, p, tt.cmp, tt.expected))
		})
	}
}

func TestSatisfies_Date(t *testing.T) {
	p := prop(schema.PropertyDate)
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jun1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    any
		cmp      schema.Comparator
		expected any
		want     bool
	}{
		{"is before", jan1, schema.CompBefore, jun1, true},
		{"is after", jun1, schema.CompAfter, jan1, true},
		{"is equal instant", jan1, schema.CompIs, "2025-01-01T00:00:00Z", true},
		{"string vs time", "2025-06-01", schema.CompAfter, jan1, true},
		{"timezone-normalized equality", time.Date(2025, 1, 1, 2, 0, 0, 0, time.FixedZone("x", 2*3600)), schema.CompIs, jan1, true},
		{"garbage fails closed", "yesterday-ish", schema.CompBefore, jun1, false},
		{"zero time is empty", time.Time{}, schema.CompIsEmpty, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfies(tt.value, p, tt.cmp, tt.expected))
		})
	}
}

func TestSatisfies_SingleSelect_ValueCodeEquality(t *testing.T) {
	p := prop(schema.PropertySingleSelect)

	// Same value code, different labels: equal.
	got := map[string]any{"label": "Done!", "value": "done"}
	want := schema.SelectOption{Label: "Completed", Value: "done"}
	assert.True(t, Satisfies(got, p, schema.CompIs, want))

	// Different codes, same label: not equal.
	other := map[string]any{"label": "Done!", "value": "archived"}
	assert.False(t, Satisfies(other, p, schema.CompIs, want))

	assert.True(t, Satisfies(got, p, schema.CompIsOneOf, []any{
		map[string]any{"value": "open"},
		map[string]any{"value": "done"},
	}))
	assert.False(t, Satisfies(got, p, schema.CompIsOneOf, []any{}))
}

func TestSatisfies_MultiSelect(t *testing.T) {
	p := prop(schema.PropertyMultiSelect)
	value := []any{
		map[string]any{"label": "Bug", "value": "bug"},
		map[string]any{"label": "P0", "value": "p0"},
	}

	assert.True(t, Satisfies(value, p, schema.CompIncludesAll, []any{"bug"}))
	assert.True(t, Satisfies(value, p, schema.CompIncludesAll, []any{"bug", "p0"}))
	assert.False(t, Satisfies(value, p, schema.CompIncludesAll, []any{"bug", "feature"}))
	assert.True(t, Satisfies(value, p, schema.CompIncludesOneOf, []any{"feature", "p0"}))
	assert.True(t, Satisfies(value, p, schema.CompExcludes, []any{"feature"}))
	assert.False(t, Satisfies(value, p, schema.CompExcludes, []any{"bug"}))
	assert.True(t, Satisfies([]any{}, p, schema.CompIsEmpty, nil))
}

func TestSatisfies_UserList(t *testing.T) {
	p := prop(schema.PropertyUserList)
	assert.True(t, Satisfies([]string{"u1", "u2"}, p, schema.CompIncludesOneOf, []any{"u2"}))
	assert.False(t, Satisfies([]string{"u1"}, p, schema.CompIncludesAll, []any{"u1", "u2"}))
}

func TestSatisfies_RewardAndMilestone(t *testing.T) {
	reward := prop(schema.PropertyReward)
	value := map[string]any{"chain": "polygon", "token": "USDC", "value": 250.0}
	assert.True(t, Satisfies(value, reward, schema.CompGreaterThan, 100))
	assert.False(t, Satisfies(value, reward, schema.CompLessThan, 100))
	assert.False(t, Satisfies(map[string]any{"chain": "polygon"}, reward, schema.CompGreaterThan, 100))

	milestone := prop(schema.PropertyMilestone)
	assert.True(t, Satisfies([]any{"m1", "m2", "m3"}, milestone, schema.CompIs, 3))
	assert.True(t, Satisfies(2, milestone, schema.CompLessThan, 3))
}

func TestSatisfies_PayWall(t *testing.T) {
	p := prop(schema.PropertyPayWall)
	assert.True(t, Satisfies(true, p, schema.CompIs, true))
	assert.False(t, Satisfies(true, p, schema.CompIs, false))
	// Only equality is in the pay-wall vocabulary.
	assert.False(t, Satisfies(true, p, schema.CompIsNot, false))
}

// Comparator totality: every (kind, comparator) pair returns a boolean
// without panicking, for well-typed, malformed, and nil operands.
func TestSatisfies_TotalOverAllPairs(t *testing.T) {
	kinds := []schema.PropertyKind{
		schema.PropertyShortText, schema.PropertyLongText, schema.PropertyNumber,
		schema.PropertyDate, schema.PropertySingleSelect, schema.PropertyMultiSelect,
		schema.PropertyUser, schema.PropertyUserList, schema.PropertyReward,
		schema.PropertyMilestone, schema.PropertyPayWall, schema.PropertyCardStatus,
	}
	comparators := []schema.Comparator{
		schema.CompIs, schema.CompIsNot, schema.CompContains, schema.CompNotContains,
		schema.CompStartsWith, schema.CompEndsWith, schema.CompIsEmpty, schema.CompIsNotEmpty,
		schema.CompGreaterThan, schema.CompLessThan, schema.CompBetween, schema.CompIsOneOf,
		schema.CompBefore, schema.CompAfter, schema.CompIncludesAll, schema.CompIncludesOneOf,
		schema.CompExcludes, schema.Comparator("made-up"),
	}
	values := []any{
		nil, "text", 42, 3.14, true,
		[]any{"a", "b"}, []string{"u1"},
		map[string]any{"value": "done"}, map[string]any{"garbage": 1},
		time.Now(), struct{ X int }{1},
	}

	for _, kind := range kinds {
		for _, cmp := range comparators {
			for _, value := range values {
				for _, expected := range values {
					assert.NotPanics(t, func() {
						Satisfies(value, prop(kind), cmp, expected)
					})
				}
			}
		}
	}
}

// Illegal pairs fail closed rather than erroring.
func TestSatisfies_IllegalPairFailsClosed(t *testing.T) {
	assert.False(t, Satisfies("abc", prop(schema.PropertyNumber), schema.CompContains, "b"))
	assert.False(t, Satisfies(3, prop(schema.PropertyShortText), schema.CompGreaterThan, 2))
	assert.False(t, Satisfies("x", schema.Property{Kind: "unknownKind"}, schema.CompIs, "x"))
}
