package engine

import (
	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/trigger"
)

// MutationKind names the entity family whose mutation starts a pass.
type MutationKind string

const (
	// MutationCard is a card field mutation on a project board.
	MutationCard MutationKind = "card"

	// MutationCollectionData is a collection record mutation.
	MutationCollectionData MutationKind = "collectionData"
)

// Event is one committed external mutation, carrying the before and
// after snapshots the pass evaluates against. The engine never mutates
// an event.
type Event struct {
	// OwnerType and OwnerID select whose automations run.
	OwnerType schema.OwnerType
	OwnerID   string

	Kind MutationKind

	// CallerID is the user whose mutation produced the event.
	CallerID string

	// Card mutations.
	CardBefore *schema.Card
	CardAfter  *schema.Card
	Project    *schema.Project

	// Collection-record mutations.
	Collection   *schema.Collection
	RecordID     string
	RecordBefore schema.Record
	RecordAfter  schema.Record

	// Circle snapshot, when the caller already has it loaded.
	Circle *schema.Circle
}

// snapshots builds the before/after pair trigger matchers see. Card
// events also project the card onto the intrinsic pseudo-schema so
// select-field triggers can inspect it.
func (ev Event) snapshots() (before, after trigger.Snapshot) {
	switch ev.Kind {
	case MutationCard:
		before = trigger.Snapshot{
			Card:   ev.CardBefore,
			Record: schema.CardRecord(ev.CardBefore),
			Props:  schema.CardProperties,
		}
		after = trigger.Snapshot{
			Card:   ev.CardAfter,
			Record: schema.CardRecord(ev.CardAfter),
			Props:  schema.CardProperties,
		}
	case MutationCollectionData:
		var props schema.PropertySchema
		if ev.Collection != nil {
			props = ev.Collection.Properties
		}
		before = trigger.Snapshot{Record: ev.RecordBefore, Props: props}
		after = trigger.Snapshot{Record: ev.RecordAfter, Props: props}
	}
	return before, after
}

// conditionInput returns the record and schema conditions evaluate
// against. Conditions always see the after state: the automation asks
// "does the entity now satisfy X", not "did it before".
func (ev Event) conditionInput() (schema.Record, schema.PropertySchema) {
	switch ev.Kind {
	case MutationCard:
		return schema.CardRecord(ev.CardAfter), schema.CardProperties
	case MutationCollectionData:
		var props schema.PropertySchema
		if ev.Collection != nil {
			props = ev.Collection.Properties
		}
		return ev.RecordAfter, props
	}
	return nil, nil
}

// relevantTriggerKinds prefilters automations by which fields the event
// actually changed. The set must be a superset of the kinds that could
// match; a kind left out here is never offered to the matcher.
func relevantTriggerKinds(ev Event) map[schema.TriggerKind]bool {
	kinds := make(map[schema.TriggerKind]bool)

	if ev.Kind == MutationCollectionData {
		kinds[schema.TriggerSelectFieldChange] = true
		return kinds
	}

	b, a := ev.CardBefore, ev.CardAfter
	if b == nil || a == nil {
		return kinds
	}
	if b.Status != a.Status {
		kinds[schema.TriggerStatusChange] = true
	}
	if b.ColumnID != a.ColumnID {
		kinds[schema.TriggerColumnChange] = true
		kinds[schema.TriggerSelectFieldChange] = true
	}
	if b.Type != a.Type {
		kinds[schema.TriggerTypeChange] = true
		kinds[schema.TriggerSelectFieldChange] = true
	}
	if b.Priority != a.Priority {
		kinds[schema.TriggerPriorityChange] = true
	}
	if !b.Deadline.Equal(a.Deadline) {
		kinds[schema.TriggerDeadlineChange] = true
	}
	if !sameStringSet(b.Assignee, a.Assignee) {
		kinds[schema.TriggerAssigneeChange] = true
	}
	if !sameStringSet(b.Reviewer, a.Reviewer) {
		kinds[schema.TriggerReviewerChange] = true
	}
	return kinds
}

func sameStringSet(xs, ys []string) bool {
	if len(xs) != len(ys) {
		return false
	}
	seen := make(map[string]int, len(xs))
	for _, x := range xs {
		seen[x]++
	}
	for _, y := range ys {
		seen[y]--
		if seen[y] < 0 {
			return false
		}
	}
	return true
}
