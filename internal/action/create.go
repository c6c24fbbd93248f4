package action

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/updates"
)

// executeCreateCard instantiates a new card from the payload's seed.
// Creation is distinguishable from updates: the card travels in the
// container's NewCards list with its id already assigned, never as a
// partial update under an unknown key. When the target project snapshot
// is in context, the new id is also inserted into the destination
// column's card order.
func executeCreateCard(_ context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	seed := act.Payload.Card
	if seed == nil {
		return nil, fmt.Errorf("createCard: payload has no card seed")
	}
	if seed.Title == "" {
		return nil, fmt.Errorf("createCard: seed has no title")
	}

	projectID := seed.ProjectID
	if projectID == "" && actx.Project != nil {
		projectID = actx.Project.ID
	}
	if projectID == "" {
		return nil, fmt.Errorf("createCard: no target project")
	}

	circleID := ""
	switch {
	case actx.Circle != nil:
		circleID = actx.Circle.ID
	case actx.Card != nil:
		circleID = actx.Card.CircleID
	case actx.Collection != nil:
		circleID = actx.Collection.CircleID
	}

	card := schema.Card{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     seed.Title,
		CircleID:  circleID,
		ProjectID: projectID,
		ColumnID:  seed.ColumnID,
		Status:    schema.CardStatus{Active: true},
		Priority:  seed.Priority,
		Type:      seed.Type,
		Assignee:  append([]string(nil), seed.Assignee...),
		CreatorID: actx.CallerID,
	}

	c := updates.NewContainer()
	c.NewCards = append(c.NewCards, card)

	if actx.Project != nil && actx.Project.ID == projectID {
		if col, ok := actx.Project.Columns[seed.ColumnID]; ok {
			c.Merge(updates.KindProject, projectID, updates.Partial{
				"columns": updates.Partial{seed.ColumnID: updates.Partial{
					"cards": prepend(card.ID, without(col.Cards, card.ID)),
				}},
			})
		}
	}
	return c, nil
}
