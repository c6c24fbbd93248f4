package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/loomhq/loom/internal/schema"
)

// CompileFile parses one CUE source into its automations, in authoring
// order. The document's top-level `automations` field must be a list;
// list position becomes store position, so authors reorder by moving
// entries, never by editing numbers.
func CompileFile(filename string, src []byte) ([]schema.Automation, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	listVal := v.LookupPath(cue.ParsePath("automations"))
	if !listVal.Exists() {
		return nil, &CompileError{
			Field:   "automations",
			Message: "document must declare an 'automations' list",
			Pos:     v.Pos(),
		}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var automations []schema.Automation
	for iter.Next() {
		a, err := CompileAutomation(iter.Value())
		if err != nil {
			return nil, err
		}
		automations = append(automations, *a)
	}
	return automations, nil
}

// CompileAutomation parses a single CUE value into an automation
// definition.
//
// The CUE value is the automation struct itself, e.g.:
//
//	{
//		id:   "close-finished"
//		name: "close finished urgent cards"
//		trigger: {kind: "columnChange", item: {to: "done"}}
//		conditions: [{field: "priority", comparator: "is greater than", value: 2}]
//		actions: [{type: "closeCard"}]
//	}
//
// Payload shapes decode through the same JSON field names the store
// persists; the compiler only hand-checks the closed kind enums and the
// required structure.
func CompileAutomation(v cue.Value) (*schema.Automation, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	a := &schema.Automation{Active: true}

	idVal := v.LookupPath(cue.ParsePath("id"))
	if !idVal.Exists() {
		return nil, &CompileError{Field: "id", Message: "id is required", Pos: v.Pos()}
	}
	id, err := idVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	a.ID = id

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		if a.Name, err = nameVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if err := parseTrigger(v, a); err != nil {
		return nil, err
	}
	if err := parseConditions(v, a); err != nil {
		return nil, err
	}
	if err := parseActions(v, a); err != nil {
		return nil, err
	}

	if activeVal := v.LookupPath(cue.ParsePath("active")); activeVal.Exists() {
		if a.Active, err = activeVal.Bool(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	return a, nil
}

// parseTrigger extracts the required trigger clause.
func parseTrigger(v cue.Value, a *schema.Automation) error {
	trigVal := v.LookupPath(cue.ParsePath("trigger"))
	if !trigVal.Exists() {
		return &CompileError{Field: "trigger", Message: "trigger is required", Pos: v.Pos()}
	}

	kindVal := trigVal.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return &CompileError{Field: "trigger.kind", Message: "trigger requires 'kind' field", Pos: trigVal.Pos()}
	}
	kind, err := kindVal.String()
	if err != nil {
		return formatCUEError(err)
	}
	a.Trigger.Kind = schema.TriggerKind(kind)
	if !schema.ValidTriggerKinds[a.Trigger.Kind] {
		return &CompileError{
			Field:   "trigger.kind",
			Message: fmt.Sprintf("unknown trigger kind %q", kind),
			Pos:     kindVal.Pos(),
		}
	}

	if itemVal := trigVal.LookupPath(cue.ParsePath("item")); itemVal.Exists() {
		if err := itemVal.Decode(&a.Trigger.Payload); err != nil {
			return formatCUEError(err)
		}
	}
	return nil
}

// parseConditions extracts the optional condition expression: either a
// flat `conditions` list with an `operator`, or a nested `rootGroup`.
func parseConditions(v cue.Value, a *schema.Automation) error {
	if opVal := v.LookupPath(cue.ParsePath("operator")); opVal.Exists() {
		op, err := opVal.String()
		if err != nil {
			return formatCUEError(err)
		}
		a.Operator = schema.ConditionOperator(op)
		if a.Operator != schema.OperatorAnd && a.Operator != schema.OperatorOr {
			return &CompileError{
				Field:   "operator",
				Message: fmt.Sprintf("operator must be \"and\" or \"or\", got %q", op),
				Pos:     opVal.Pos(),
			}
		}
	}

	condsVal := v.LookupPath(cue.ParsePath("conditions"))
	groupVal := v.LookupPath(cue.ParsePath("rootGroup"))
	if condsVal.Exists() && groupVal.Exists() {
		return &CompileError{
			Field:   "conditions",
			Message: "declare either 'conditions' or 'rootGroup', not both",
			Pos:     condsVal.Pos(),
		}
	}

	if condsVal.Exists() {
		if err := condsVal.Decode(&a.Conditions); err != nil {
			return formatCUEError(err)
		}
	}
	if groupVal.Exists() {
		var g schema.ConditionGroup
		if err := groupVal.Decode(&g); err != nil {
			return formatCUEError(err)
		}
		a.RootGroup = &g
	}
	return nil
}

// parseActions extracts the required, non-empty action list.
func parseActions(v cue.Value, a *schema.Automation) error {
	actionsVal := v.LookupPath(cue.ParsePath("actions"))
	if !actionsVal.Exists() {
		return &CompileError{Field: "actions", Message: "actions list is required", Pos: v.Pos()}
	}

	iter, err := actionsVal.List()
	if err != nil {
		return formatCUEError(err)
	}

	idx := 0
	for iter.Next() {
		actVal := iter.Value()
		typeVal := actVal.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return &CompileError{
				Field:   fmt.Sprintf("actions[%d].type", idx),
				Message: "action requires 'type' field",
				Pos:     actVal.Pos(),
			}
		}
		kind, err := typeVal.String()
		if err != nil {
			return formatCUEError(err)
		}
		act := schema.Action{Kind: schema.ActionKind(kind)}
		if !schema.ValidActionKinds[act.Kind] {
			return &CompileError{
				Field:   fmt.Sprintf("actions[%d].type", idx),
				Message: fmt.Sprintf("unknown action kind %q", kind),
				Pos:     typeVal.Pos(),
			}
		}
		if dataVal := actVal.LookupPath(cue.ParsePath("data")); dataVal.Exists() {
			if err := dataVal.Decode(&act.Payload); err != nil {
				return formatCUEError(err)
			}
		}
		a.Actions = append(a.Actions, act)
		idx++
	}
	if idx == 0 {
		return &CompileError{Field: "actions", Message: "actions list must not be empty", Pos: actionsVal.Pos()}
	}
	return nil
}
