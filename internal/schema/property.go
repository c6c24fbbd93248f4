package schema

// PropertyKind identifies the declared type of a collection property.
type PropertyKind string

const (
	PropertyShortText    PropertyKind = "shortText"
	PropertyLongText     PropertyKind = "longText"
	PropertyNumber       PropertyKind = "number"
	PropertyDate         PropertyKind = "date"
	PropertySingleSelect PropertyKind = "singleSelect"
	PropertyMultiSelect  PropertyKind = "multiSelect"
	PropertyUser         PropertyKind = "user"
	PropertyUserList     PropertyKind = "user[]"
	PropertyReward       PropertyKind = "reward"
	PropertyMilestone    PropertyKind = "milestone"
	PropertyPayWall      PropertyKind = "payWall"
	PropertyCardStatus   PropertyKind = "cardStatus"
)

// ValidPropertyKinds enumerates every recognized property kind.
var ValidPropertyKinds = map[PropertyKind]bool{
	PropertyShortText:    true,
	PropertyLongText:     true,
	PropertyNumber:       true,
	PropertyDate:         true,
	PropertySingleSelect: true,
	PropertyMultiSelect:  true,
	PropertyUser:         true,
	PropertyUserList:     true,
	PropertyReward:       true,
	PropertyMilestone:    true,
	PropertyPayWall:      true,
	PropertyCardStatus:   true,
}

// SelectOption is one choice of a single- or multi-select property.
// Two options are the same selection when their Value codes match;
// Label is display text and never participates in equality.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Property is one declared field of a collection's schema.
type Property struct {
	Name     string         `json:"name"`
	Kind     PropertyKind   `json:"type"`
	Options  []SelectOption `json:"options,omitempty"`
	Required bool           `json:"required,omitempty"`
}

// PropertySchema maps property name to its declaration.
type PropertySchema map[string]Property

// Comparator identifies a predicate over one property value.
type Comparator string

const (
	CompIs            Comparator = "is"
	CompIsNot         Comparator = "is not"
	CompContains      Comparator = "contains"
	CompNotContains   Comparator = "does not contain"
	CompStartsWith    Comparator = "starts with"
	CompEndsWith      Comparator = "ends with"
	CompIsEmpty       Comparator = "is empty"
	CompIsNotEmpty    Comparator = "is not empty"
	CompGreaterThan   Comparator = "is greater than"
	CompLessThan      Comparator = "is less than"
	CompBetween       Comparator = "is between"
	CompIsOneOf       Comparator = "is one of"
	CompBefore        Comparator = "is before"
	CompAfter         Comparator = "is after"
	CompIncludesAll   Comparator = "includes all of"
	CompIncludesOneOf Comparator = "includes one of"
	CompExcludes      Comparator = "does not include"
)

// comparatorsByKind lists the legal comparator vocabulary per property
// kind. A (kind, comparator) pair absent from this table is not an
// authoring error at evaluation time - Satisfies fails closed instead.
var comparatorsByKind = map[PropertyKind][]Comparator{
	PropertyShortText:    {CompIs, CompIsNot, CompContains, CompNotContains, CompStartsWith, CompEndsWith, CompIsEmpty, CompIsNotEmpty},
	PropertyLongText:     {CompIs, CompIsNot, CompContains, CompNotContains, CompStartsWith, CompEndsWith, CompIsEmpty, CompIsNotEmpty},
	PropertyNumber:       {CompIs, CompIsNot, CompGreaterThan, CompLessThan, CompBetween, CompIsEmpty, CompIsNotEmpty},
	PropertyDate:         {CompIs, CompBefore, CompAfter, CompBetween, CompIsEmpty, CompIsNotEmpty},
	PropertySingleSelect: {CompIs, CompIsNot, CompIsOneOf, CompIsEmpty, CompIsNotEmpty},
	PropertyMultiSelect:  {CompIncludesAll, CompIncludesOneOf, CompExcludes, CompIsEmpty, CompIsNotEmpty},
	PropertyUser:         {CompIs, CompIsNot, CompIsOneOf, CompIsEmpty, CompIsNotEmpty},
	PropertyUserList:     {CompIncludesAll, CompIncludesOneOf, CompExcludes, CompIsEmpty, CompIsNotEmpty},
	PropertyReward:       {CompIs, CompGreaterThan, CompLessThan, CompIsEmpty, CompIsNotEmpty},
	PropertyMilestone:    {CompIs, CompIsNot, CompGreaterThan, CompLessThan, CompIsEmpty, CompIsNotEmpty},
	PropertyPayWall:      {CompIs},
	PropertyCardStatus:   {CompIs, CompIsNot},
}

// ComparatorLegal reports whether the comparator belongs to the kind's
// vocabulary.
func ComparatorLegal(kind PropertyKind, cmp Comparator) bool {
	for _, c := range comparatorsByKind[kind] {
		if c == cmp {
			return true
		}
	}
	return false
}

// ComparatorsFor returns the legal comparators for a kind in declaration
// order. Returns nil for unknown kinds.
func ComparatorsFor(kind PropertyKind) []Comparator {
	legal := comparatorsByKind[kind]
	out := make([]Comparator, len(legal))
	copy(out, legal)
	return out
}
