package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomhq/loom/internal/schema"
)

var testProps = schema.PropertySchema{
	"priority": {Name: "priority", Kind: schema.PropertyNumber},
	"status":   {Name: "status", Kind: schema.PropertySingleSelect},
	"title":    {Name: "title", Kind: schema.PropertyShortText},
}

func cond(field string, cmp schema.Comparator, value any) schema.Condition {
	return schema.Condition{Field: field, Comparator: cmp, Value: value}
}

func TestEvaluate_FlatAnd(t *testing.T) {
	record := schema.Record{"priority": 3, "title": "fix login"}

	conds := []schema.Condition{
		cond("priority", schema.CompGreaterThan, 2),
		cond("title", schema.CompContains, "login"),
	}
	assert.True(t, Evaluate(conds, record, testProps, schema.OperatorAnd))

	conds[0] = cond("priority", schema.CompGreaterThan, 5)
	assert.False(t, Evaluate(conds, record, testProps, schema.OperatorAnd))
}

func TestEvaluate_FlatOr(t *testing.T) {
	record := schema.Record{"priority": 1, "title": "fix login"}

	conds := []schema.Condition{
		cond("priority", schema.CompGreaterThan, 2),
		cond("title", schema.CompContains, "login"),
	}
	assert.True(t, Evaluate(conds, record, testProps, schema.OperatorOr))

	conds[1] = cond("title", schema.CompContains, "checkout")
	assert.False(t, Evaluate(conds, record, testProps, schema.OperatorOr))
}

// Schema-missing leniency: a condition on an undeclared field is
// satisfied regardless of the record, so long as no other condition
// fails.
func TestEvaluate_SchemaMissingFieldIsLenient(t *testing.T) {
	record := schema.Record{"priority": 3}

	conds := []schema.Condition{
		cond("deleted_field", schema.CompIs, "whatever"),
		cond("priority", schema.CompGreaterThan, 2),
	}
	assert.True(t, Evaluate(conds, record, testProps, schema.OperatorAnd))

	// The leniency holds per-branch under or as well.
	only := []schema.Condition{cond("deleted_field", schema.CompIs, "x")}
	assert.True(t, Evaluate(only, record, testProps, schema.OperatorOr))
}

func TestEvaluate_NilRecordFailsClosed(t *testing.T) {
	conds := []schema.Condition{cond("priority", schema.CompGreaterThan, 0)}
	assert.False(t, Evaluate(conds, nil, testProps, schema.OperatorAnd))

	// ... except for schema-missing conditions, which stay lenient.
	lenient := []schema.Condition{cond("ghost", schema.CompIs, 1)}
	assert.True(t, Evaluate(lenient, nil, testProps, schema.OperatorAnd))
}

func TestEvaluate_EmptyListIsTrue(t *testing.T) {
	assert.True(t, Evaluate(nil, schema.Record{}, testProps, schema.OperatorAnd))
	assert.True(t, Evaluate(nil, nil, testProps, schema.OperatorOr))
}

func TestEvaluateGroup_EmptyOrderIsTrue(t *testing.T) {
	g := schema.ConditionGroup{Operator: schema.OperatorAnd}
	assert.True(t, EvaluateGroup(g, nil, testProps))
}

func TestEvaluateGroup_Nested(t *testing.T) {
	record := schema.Record{"priority": 3, "title": "fix login"}

	// priority > 2 AND (title contains "checkout" OR title contains "login")
	g := schema.ConditionGroup{
		Operator: schema.OperatorAnd,
		Order:    []string{"c1", "g1"},
		Conditions: map[string]schema.Condition{
			"c1": cond("priority", schema.CompGreaterThan, 2),
		},
		Groups: map[string]schema.ConditionGroup{
			"g1": {
				Operator: schema.OperatorOr,
				Order:    []string{"c2", "c3"},
				Conditions: map[string]schema.Condition{
					"c2": cond("title", schema.CompContains, "checkout"),
					"c3": cond("title", schema.CompContains, "login"),
				},
			},
		},
	}
	assert.True(t, EvaluateGroup(g, record, testProps))

	record["title"] = "unrelated"
	assert.False(t, EvaluateGroup(g, record, testProps))
}

// Order interleaves leaves and groups; evaluation must honor it when
// short-circuiting. The leading true branch decides the or-group before
// the failing child group is ever reached.
func TestEvaluateGroup_DeclaredOrderShortCircuit(t *testing.T) {
	record := schema.Record{"priority": 3}

	g := schema.ConditionGroup{
		Operator: schema.OperatorOr,
		Order:    []string{"c1", "g1"},
		Conditions: map[string]schema.Condition{
			"c1": cond("priority", schema.CompGreaterThan, 2),
		},
		Groups: map[string]schema.ConditionGroup{
			"g1": {
				Operator: schema.OperatorAnd,
				Order:    []string{"c2"},
				Conditions: map[string]schema.Condition{
					"c2": cond("priority", schema.CompLessThan, 0),
				},
			},
		},
	}
	assert.True(t, EvaluateGroup(g, record, testProps))
}

func TestEvaluateGroup_DanglingOrderIDsSkipped(t *testing.T) {
	record := schema.Record{"priority": 3}
	g := schema.ConditionGroup{
		Operator: schema.OperatorAnd,
		Order:    []string{"missing", "c1"},
		Conditions: map[string]schema.Condition{
			"c1": cond("priority", schema.CompGreaterThan, 2),
		},
	}
	assert.True(t, EvaluateGroup(g, record, testProps))

	allDangling := schema.ConditionGroup{
		Operator: schema.OperatorOr,
		Order:    []string{"x", "y"},
	}
	assert.True(t, EvaluateGroup(allDangling, record, testProps))
}
