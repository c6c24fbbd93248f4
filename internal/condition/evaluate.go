// Package condition reduces an automation's condition expression to a
// boolean against one data record.
//
// Two entry points exist: Evaluate walks a flat condition list under a
// single operator, EvaluateGroup walks a nested and/or tree. Both are
// total: they never return an error and never panic, whatever the stored
// definition looks like.
//
// KNOWN LENIENCY: a condition whose field is missing from the schema
// counts as satisfied. Legacy automations keep references to deleted
// properties, and blocking an otherwise-valid automation on one stale
// condition was judged worse than ignoring it. This is documented
// behavior, not a recommendation; trigger matching deliberately does NOT
// share it.
package condition

import (
	"github.com/loomhq/loom/internal/comparator"
	"github.com/loomhq/loom/internal/schema"
)

// Evaluate reduces a flat condition list to a boolean under op.
//
// A nil record fails every (schema-present) condition: the engine never
// acts on absent data. An empty condition list is true. An unrecognized
// operator defaults to "and".
func Evaluate(conds []schema.Condition, record schema.Record, props schema.PropertySchema, op schema.ConditionOperator) bool {
	if len(conds) == 0 {
		return true
	}
	if op != schema.OperatorOr {
		op = schema.OperatorAnd
	}

	for _, c := range conds {
		sat := evaluateOne(c, record, props)
		if op == schema.OperatorAnd && !sat {
			return false
		}
		if op == schema.OperatorOr && sat {
			return true
		}
	}
	return op == schema.OperatorAnd
}

// EvaluateGroup reduces a nested condition-group tree to a boolean.
//
// The group's Order list interleaves condition ids and child-group ids;
// evaluation and short-circuiting follow that declared order, not
// conditions-first. An empty Order is true - an automation with no
// conditions always fires once its trigger matches. Ids that resolve to
// neither a condition nor a child group are skipped.
func EvaluateGroup(g schema.ConditionGroup, record schema.Record, props schema.PropertySchema) bool {
	if len(g.Order) == 0 {
		return true
	}
	op := g.Operator
	if op != schema.OperatorOr {
		op = schema.OperatorAnd
	}

	evaluated := false
	for _, id := range g.Order {
		var sat bool
		if c, ok := g.Conditions[id]; ok {
			sat = evaluateOne(c, record, props)
		} else if child, ok := g.Groups[id]; ok {
			sat = EvaluateGroup(child, record, props)
		} else {
			continue
		}
		evaluated = true
		if op == schema.OperatorAnd && !sat {
			return false
		}
		if op == schema.OperatorOr && sat {
			return true
		}
	}
	if !evaluated {
		// Every order entry was dangling; same as an empty group.
		return true
	}
	return op == schema.OperatorAnd
}

// evaluateOne applies a single condition. Schema-missing fields are
// vacuously satisfied (see package comment); a nil record fails closed.
func evaluateOne(c schema.Condition, record schema.Record, props schema.PropertySchema) bool {
	prop, declared := props[c.Field]
	if !declared {
		return true
	}
	if record == nil {
		return false
	}
	return comparator.Satisfies(record[c.Field], prop, c.Comparator, c.Value)
}
