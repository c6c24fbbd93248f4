package compiler

import (
	"fmt"
	"strings"

	"github.com/loomhq/loom/internal/action"
	"github.com/loomhq/loom/internal/schema"
)

// Validation error codes (E100-E199)
const (
	// Definition errors (E101-E109)
	ErrIDEmpty           = "E101" // id is required
	ErrUnknownTrigger    = "E102" // trigger kind not recognized
	ErrNoActions         = "E103" // at least one action required
	ErrUnknownAction     = "E104" // action kind not recognized
	ErrConditionNoField  = "E105" // condition missing field
	ErrUnknownComparator = "E106" // comparator not in any kind's vocabulary
	ErrBothConditionForm = "E107" // flat list and root group both present
	ErrDanglingGroupRef  = "E108" // group order id resolves to nothing

	// Action payload errors (E110-E119)
	ErrEmailSpecMissing = "E110" // sendEmail without email spec
	ErrCardSeedMissing  = "E111" // createCard without seed
	ErrRolesMissing     = "E112" // giveRole without roles
	ErrColumnMissing    = "E113" // changeColumn without column id
	ErrInvalidMember    = "E114" // changeMember with unknown member kind
)

// ValidationError represents a definition validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled automation against the semantic rules the
// structural compile pass cannot see. Returns all errors found (does not
// fail-fast), so authors fix a file in one round.
func Validate(a *schema.Automation) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(a.ID) == "" {
		errs = append(errs, ValidationError{
			Field:   "id",
			Message: "id is required and must be non-empty",
			Code:    ErrIDEmpty,
		})
	}

	if !schema.ValidTriggerKinds[a.Trigger.Kind] {
		errs = append(errs, ValidationError{
			Field:   "trigger.kind",
			Message: fmt.Sprintf("unknown trigger kind %q", a.Trigger.Kind),
			Code:    ErrUnknownTrigger,
		})
	}

	if a.Conditions != nil && a.RootGroup != nil {
		errs = append(errs, ValidationError{
			Field:   "conditions",
			Message: "flat conditions and rootGroup are mutually exclusive",
			Code:    ErrBothConditionForm,
		})
	}
	for i, c := range a.Conditions {
		errs = append(errs, validateCondition(fmt.Sprintf("conditions[%d]", i), c)...)
	}
	if a.RootGroup != nil {
		errs = append(errs, validateGroup("rootGroup", *a.RootGroup)...)
	}

	if len(a.Actions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "actions",
			Message: "at least one action is required",
			Code:    ErrNoActions,
		})
	}
	for i, act := range a.Actions {
		errs = append(errs, validateAction(fmt.Sprintf("actions[%d]", i), act)...)
	}

	return errs
}

// validateCondition checks one condition predicate.
func validateCondition(field string, c schema.Condition) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(c.Field) == "" {
		errs = append(errs, ValidationError{
			Field:   field + ".field",
			Message: "condition requires a field name",
			Code:    ErrConditionNoField,
		})
	}
	if !comparatorKnown(c.Comparator) {
		errs = append(errs, ValidationError{
			Field:   field + ".comparator",
			Message: fmt.Sprintf("unknown comparator %q", c.Comparator),
			Code:    ErrUnknownComparator,
		})
	}
	return errs
}

// validateGroup walks a nested group. Order ids must resolve to a
// condition or a child group; a dangling id is tolerated at evaluation
// time but flagged here so authors catch typos.
func validateGroup(field string, g schema.ConditionGroup) []ValidationError {
	var errs []ValidationError
	for _, id := range g.Order {
		if c, ok := g.Conditions[id]; ok {
			errs = append(errs, validateCondition(fmt.Sprintf("%s.conditions.%s", field, id), c)...)
			continue
		}
		if child, ok := g.Groups[id]; ok {
			errs = append(errs, validateGroup(fmt.Sprintf("%s.groups.%s", field, id), child)...)
			continue
		}
		errs = append(errs, ValidationError{
			Field:   field + ".order",
			Message: fmt.Sprintf("order id %q resolves to neither a condition nor a group", id),
			Code:    ErrDanglingGroupRef,
		})
	}
	return errs
}

// validateAction checks one action's kind and required payload. The kind
// check goes through the executor table, not the schema enum, so a kind
// cannot validate unless something will actually run it.
func validateAction(field string, act schema.Action) []ValidationError {
	var errs []ValidationError
	if !action.Registered(act.Kind) {
		return append(errs, ValidationError{
			Field:   field + ".type",
			Message: fmt.Sprintf("unknown action kind %q", act.Kind),
			Code:    ErrUnknownAction,
		})
	}

	switch act.Kind {
	case schema.ActionSendEmail:
		if act.Payload.Email == nil {
			errs = append(errs, ValidationError{
				Field:   field + ".data.email",
				Message: "sendEmail requires an email spec",
				Code:    ErrEmailSpecMissing,
			})
		}
	case schema.ActionCreateCard:
		if act.Payload.Card == nil || strings.TrimSpace(act.Payload.Card.Title) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".data.card",
				Message: "createCard requires a card seed with a title",
				Code:    ErrCardSeedMissing,
			})
		}
	case schema.ActionGiveRole:
		if len(act.Payload.Roles) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".data.roles",
				Message: "giveRole requires at least one role",
				Code:    ErrRolesMissing,
			})
		}
	case schema.ActionChangeColumn:
		if strings.TrimSpace(act.Payload.ColumnID) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".data.columnId",
				Message: "changeColumn requires a destination column id",
				Code:    ErrColumnMissing,
			})
		}
	case schema.ActionChangeMember:
		if act.Payload.Member != "" &&
			act.Payload.Member != schema.MemberAssignee &&
			act.Payload.Member != schema.MemberReviewer {
			errs = append(errs, ValidationError{
				Field:   field + ".data.member",
				Message: fmt.Sprintf("unknown member kind %q", act.Payload.Member),
				Code:    ErrInvalidMember,
			})
		}
	}
	return errs
}

// comparatorKnown reports whether the comparator belongs to at least one
// property kind's vocabulary. Kind-specific legality is an evaluation
// concern; authoring only rejects strings no kind accepts.
func comparatorKnown(cmp schema.Comparator) bool {
	for kind := range schema.ValidPropertyKinds {
		if schema.ComparatorLegal(kind, cmp) {
			return true
		}
	}
	return false
}
