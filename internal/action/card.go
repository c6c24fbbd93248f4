package action

import (
	"context"
	"fmt"
	"time"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/updates"
)

// executeChangeStatus overwrites the card's status flag set.
func executeChangeStatus(_ context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	if actx.Card == nil {
		return nil, fmt.Errorf("changeStatus: no card in context")
	}
	if act.Payload.Status == nil {
		return nil, fmt.Errorf("changeStatus: payload has no status")
	}
	c := updates.NewContainer()
	c.Merge(updates.KindCard, actx.Card.ID, updates.Partial{"status": *act.Payload.Status})
	return c, nil
}

// executeCloseCard is changeStatus with a fixed inactive target.
func executeCloseCard(_ context.Context, _ schema.Action, actx *Context) (*updates.Container, error) {
	if actx.Card == nil {
		return nil, fmt.Errorf("closeCard: no card in context")
	}
	c := updates.NewContainer()
	c.Merge(updates.KindCard, actx.Card.ID, updates.Partial{
		"status": schema.CardStatus{Active: false, Paid: actx.Card.Status.Paid, Archived: actx.Card.Status.Archived},
	})
	return c, nil
}

// executeChangeColumn moves the card to another column. This is the one
// action that updates two entities: the card's columnId and the project's
// per-column card orders (drop from source, insert at the top of the
// destination).
func executeChangeColumn(_ context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	if actx.Card == nil {
		return nil, fmt.Errorf("changeColumn: no card in context")
	}
	if actx.Project == nil {
		return nil, fmt.Errorf("changeColumn: no project in context")
	}
	dest := act.Payload.ColumnID
	if dest == "" {
		return nil, fmt.Errorf("changeColumn: payload has no column id")
	}
	destCol, ok := actx.Project.Columns[dest]
	if !ok {
		return nil, fmt.Errorf("changeColumn: column %q not in project %s", dest, actx.Project.ID)
	}
	src := actx.Card.ColumnID
	if src == dest {
		// Nothing to move; contribute nothing rather than churn order.
		return updates.NewContainer(), nil
	}

	c := updates.NewContainer()
	c.Merge(updates.KindCard, actx.Card.ID, updates.Partial{"columnId": dest})

	cols := updates.Partial{}
	if srcCol, ok := actx.Project.Columns[src]; ok {
		cols[src] = updates.Partial{"cards": without(srcCol.Cards, actx.Card.ID)}
	}
	cols[dest] = updates.Partial{"cards": prepend(actx.Card.ID, without(destCol.Cards, actx.Card.ID))}
	c.Merge(updates.KindProject, actx.Project.ID, updates.Partial{"columns": cols})
	return c, nil
}

// cardSimpleFields are the card fields changeSimpleField may set, with
// their value coercion.
var cardSimpleFields = map[string]func(v any) (any, bool){
	"title": func(v any) (any, bool) {
		s, ok := v.(string)
		return s, ok
	},
	"type": func(v any) (any, bool) {
		s, ok := v.(string)
		return s, ok
	},
	"priority": func(v any) (any, bool) {
		switch n := v.(type) {
		case int:
			return n, true
		case float64:
			return int(n), true
		}
		return nil, false
	},
	"deadline": func(v any) (any, bool) {
		switch d := v.(type) {
		case time.Time:
			return d, true
		case string:
			t, err := time.Parse(time.RFC3339, d)
			return t, err == nil
		}
		return nil, false
	},
}

// executeChangeSimpleField sets one scalar field. On a collection record
// it requires the field to be declared in the schema - this handler is
// deliberately strict where condition evaluation is lenient; the two
// behaviors coexist on purpose.
func executeChangeSimpleField(_ context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	field := act.Payload.Field
	if field == "" {
		return nil, fmt.Errorf("changeSimpleField: payload has no field")
	}

	if actx.Collection != nil && actx.RecordID != "" {
		if _, declared := actx.Collection.Properties[field]; !declared {
			return nil, fmt.Errorf("changeSimpleField: field %q not in schema of collection %s", field, actx.Collection.Slug)
		}
		c := updates.NewContainer()
		c.Merge(updates.KindCollection, actx.Collection.ID, updates.Partial{
			"data": updates.Partial{actx.RecordID: updates.Partial{field: act.Payload.Value}},
		})
		return c, nil
	}

	if actx.Card == nil {
		return nil, fmt.Errorf("changeSimpleField: no card or record in context")
	}
	coerce, ok := cardSimpleFields[field]
	if !ok {
		return nil, fmt.Errorf("changeSimpleField: %q is not a simple card field", field)
	}
	value, ok := coerce(act.Payload.Value)
	if !ok {
		return nil, fmt.Errorf("changeSimpleField: bad value for %q", field)
	}
	c := updates.NewContainer()
	c.Merge(updates.KindCard, actx.Card.ID, updates.Partial{field: value})
	return c, nil
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func prepend(id string, list []string) []string {
	return append([]string{id}, list...)
}
