package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loomhq/loom/internal/schema"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func cardSnap(c *schema.Card) Snapshot { return Snapshot{Card: c} }

func card(mut func(*schema.Card)) *schema.Card {
	c := &schema.Card{
		ID:       "c1",
		CircleID: "circle-1",
		ColumnID: "wip",
		Status:   schema.CardStatus{Active: true},
		Priority: 2,
		Type:     "Task",
		Assignee: []string{"u1"},
	}
	if mut != nil {
		mut(c)
	}
	return c
}

func TestMatches_UnknownKind(t *testing.T) {
	tr := schema.Trigger{Kind: "bogusKind"}
	assert.False(t, Matches(tr, cardSnap(card(nil)), cardSnap(card(nil))))
}

func TestStatusChange_Exactness(t *testing.T) {
	before := card(func(c *schema.Card) { c.Status = schema.CardStatus{Active: true} })
	after := card(func(c *schema.Card) { c.Status = schema.CardStatus{Active: false} })

	match := schema.Trigger{Kind: schema.TriggerStatusChange, Payload: schema.TriggerPayload{
		FromStatus: map[string]bool{"active": true},
		ToStatus:   map[string]bool{"active": false},
	}}
	assert.True(t, Matches(match, cardSnap(before), cardSnap(after)))

	// A to-constraint on an unchanged-false flag does not hold.
	miss := schema.Trigger{Kind: schema.TriggerStatusChange, Payload: schema.TriggerPayload{
		FromStatus: map[string]bool{"active": true},
		ToStatus:   map[string]bool{"archived": true},
	}}
	assert.False(t, Matches(miss, cardSnap(before), cardSnap(after)))
}

func TestStatusChange_BothMapsRequired(t *testing.T) {
	before := card(nil)
	after := card(func(c *schema.Card) { c.Status.Active = false })

	tr := schema.Trigger{Kind: schema.TriggerStatusChange, Payload: schema.TriggerPayload{
		FromStatus: map[string]bool{"active": true},
	}}
	assert.False(t, Matches(tr, cardSnap(before), cardSnap(after)))
}

func TestStatusChange_UnmentionedKeysUnconstrained(t *testing.T) {
	before := card(func(c *schema.Card) { c.Status = schema.CardStatus{Active: true, Paid: true} })
	after := card(func(c *schema.Card) { c.Status = schema.CardStatus{Active: false, Paid: true} })

	tr := schema.Trigger{Kind: schema.TriggerStatusChange, Payload: schema.TriggerPayload{
		FromStatus: map[string]bool{"active": true},
		ToStatus:   map[string]bool{"active": false},
	}}
	assert.True(t, Matches(tr, cardSnap(before), cardSnap(after)))
}

// A key outside the closed flag set rejects; it must not compare
// against the map zero value and match vacuously.
func TestStatusChange_UnknownKeyRejects(t *testing.T) {
	before := card(func(c *schema.Card) { c.Status = schema.CardStatus{Active: true} })
	after := card(func(c *schema.Card) { c.Status = schema.CardStatus{Active: false} })

	tr := schema.Trigger{Kind: schema.TriggerStatusChange, Payload: schema.TriggerPayload{
		FromStatus: map[string]bool{"bogus": false},
		ToStatus:   map[string]bool{"active": false},
	}}
	assert.False(t, Matches(tr, cardSnap(before), cardSnap(after)))

	tr = schema.Trigger{Kind: schema.TriggerStatusChange, Payload: schema.TriggerPayload{
		FromStatus: map[string]bool{"active": true},
		ToStatus:   map[string]bool{"bogus": false},
	}}
	assert.False(t, Matches(tr, cardSnap(before), cardSnap(after)))
}

// A basic trigger with both from and to unset never matches - explicit
// reject, not vacuous true.
func TestColumnChange_BothUnsetNeverMatches(t *testing.T) {
	before := card(nil)
	after := card(func(c *schema.Card) { c.ColumnID = "done" })

	tr := schema.Trigger{Kind: schema.TriggerColumnChange}
	assert.False(t, Matches(tr, cardSnap(before), cardSnap(after)))
}

func TestColumnChange_FromTo(t *testing.T) {
	before := card(nil) // column "wip"
	after := card(func(c *schema.Card) { c.ColumnID = "done" })

	tests := []struct {
		name string
		p    schema.TriggerPayload
		want bool
	}{
		{"to only", schema.TriggerPayload{To: strp("done")}, true},
		{"from only", schema.TriggerPayload{From: strp("wip")}, true},
		{"both", schema.TriggerPayload{From: strp("wip"), To: strp("done")}, true},
		{"wrong from", schema.TriggerPayload{From: strp("backlog")}, false},
		{"wrong to", schema.TriggerPayload{To: strp("review")}, false},
		// from must also differ from the after value
		{"from equals after", schema.TriggerPayload{From: strp("done")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := schema.Trigger{Kind: schema.TriggerColumnChange, Payload: tt.p}
			assert.Equal(t, tt.want, Matches(tr, cardSnap(before), cardSnap(after)))
		})
	}
}

func TestColumnChange_NoActualChange(t *testing.T) {
	c := card(nil)
	tr := schema.Trigger{Kind: schema.TriggerColumnChange, Payload: schema.TriggerPayload{To: strp("wip")}}
	assert.False(t, Matches(tr, cardSnap(c), cardSnap(c)))
}

func TestPriorityChange(t *testing.T) {
	before := card(nil) // priority 2
	after := card(func(c *schema.Card) { c.Priority = 4 })

	up := schema.Trigger{Kind: schema.TriggerPriorityChange, Payload: schema.TriggerPayload{ToLevel: intp(4)}}
	assert.True(t, Matches(up, cardSnap(before), cardSnap(after)))

	unset := schema.Trigger{Kind: schema.TriggerPriorityChange}
	assert.False(t, Matches(unset, cardSnap(before), cardSnap(after)))
}

func TestDeadlineChange(t *testing.T) {
	due := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	before := card(nil)
	after := card(func(c *schema.Card) { c.Deadline = due })

	anyChange := schema.Trigger{Kind: schema.TriggerDeadlineChange}
	assert.True(t, Matches(anyChange, cardSnap(before), cardSnap(after)))
	assert.False(t, Matches(anyChange, cardSnap(after), cardSnap(after)))

	set := schema.Trigger{Kind: schema.TriggerDeadlineChange, Payload: schema.TriggerPayload{DeadlineSet: true}}
	assert.True(t, Matches(set, cardSnap(before), cardSnap(after)))
	assert.False(t, Matches(set, cardSnap(after), cardSnap(before)))

	cleared := schema.Trigger{Kind: schema.TriggerDeadlineChange, Payload: schema.TriggerPayload{DeadlineCleared: true}}
	assert.True(t, Matches(cleared, cardSnap(after), cardSnap(before)))
}

func TestAssigneeChange_SubConditionsAreANDed(t *testing.T) {
	before := card(func(c *schema.Card) { c.Assignee = []string{"u1", "u2"} })
	after := card(func(c *schema.Card) { c.Assignee = []string{"u1"} })

	reduced := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		CountReducedFrom: intp(2),
	}}
	assert.True(t, Matches(reduced, cardSnap(before), cardSnap(after)))

	// Both sub-conditions must hold.
	both := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		CountReducedFrom: intp(2),
		ToMembers:        []string{"u2"},
	}}
	assert.False(t, Matches(both, cardSnap(before), cardSnap(after)))

	bothOK := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		CountReducedFrom: intp(2),
		ToMembers:        []string{"u1"},
	}}
	assert.True(t, Matches(bothOK, cardSnap(before), cardSnap(after)))
}

func TestAssigneeChange_CountsAreExactThenStrict(t *testing.T) {
	before := card(func(c *schema.Card) { c.Assignee = []string{"u1", "u2", "u3"} })
	after := card(func(c *schema.Card) { c.Assignee = []string{"u1", "u2"} })

	// Exact before-count required.
	wrongBase := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		CountReducedFrom: intp(2),
	}}
	assert.False(t, Matches(wrongBase, cardSnap(before), cardSnap(after)))

	// Strict inequality on after-count.
	same := card(func(c *schema.Card) { c.Assignee = []string{"u1", "u2", "u3"} })
	noDrop := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		CountReducedFrom: intp(3),
	}}
	assert.False(t, Matches(noDrop, cardSnap(before), cardSnap(same)))
}

func TestAssigneeChange_EmptyTransitions(t *testing.T) {
	empty := card(func(c *schema.Card) { c.Assignee = nil })
	filled := card(func(c *schema.Card) { c.Assignee = []string{"u1"} })

	gained := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		FromEmptyToNotEmpty: true,
	}}
	assert.True(t, Matches(gained, cardSnap(empty), cardSnap(filled)))
	assert.False(t, Matches(gained, cardSnap(filled), cardSnap(empty)))

	lost := schema.Trigger{Kind: schema.TriggerReviewerChange, Payload: schema.TriggerPayload{
		FromNotEmptyToEmpty: true,
	}}
	b := card(func(c *schema.Card) { c.Reviewer = []string{"u9"} })
	a := card(func(c *schema.Card) { c.Reviewer = nil })
	assert.True(t, Matches(lost, cardSnap(b), cardSnap(a)))
}

func TestAssigneeChange_FromToSetMatchIsOrderInsensitive(t *testing.T) {
	before := card(func(c *schema.Card) { c.Assignee = []string{"u2", "u1"} })
	after := card(func(c *schema.Card) { c.Assignee = []string{"u3"} })

	tr := schema.Trigger{Kind: schema.TriggerAssigneeChange, Payload: schema.TriggerPayload{
		FromMembers: []string{"u1", "u2"},
		ToMembers:   []string{"u3"},
	}}
	assert.True(t, Matches(tr, cardSnap(before), cardSnap(after)))
}

func TestAssigneeChange_NoSubConditionsFiresOnAnyChange(t *testing.T) {
	before := card(nil)
	after := card(func(c *schema.Card) { c.Assignee = []string{"u1", "u2"} })

	tr := schema.Trigger{Kind: schema.TriggerAssigneeChange}
	assert.True(t, Matches(tr, cardSnap(before), cardSnap(after)))
	assert.False(t, Matches(tr, cardSnap(before), cardSnap(before)))
}

func recordSnap(rec schema.Record, props schema.PropertySchema) Snapshot {
	return Snapshot{Record: rec, Props: props}
}

func TestSelectFieldChange(t *testing.T) {
	props := schema.PropertySchema{
		"stage": {Name: "stage", Kind: schema.PropertySingleSelect, Options: []schema.SelectOption{
			{Label: "Open", Value: "open"},
			{Label: "Closed", Value: "closed"},
		}},
	}
	before := schema.Record{"stage": map[string]any{"label": "Open", "value": "open"}}
	after := schema.Record{"stage": map[string]any{"label": "Closed", "value": "closed"}}

	tr := schema.Trigger{Kind: schema.TriggerSelectFieldChange, Payload: schema.TriggerPayload{
		Field:      "stage",
		FromValues: []schema.SelectOption{{Value: "open"}},
		ToValues:   []schema.SelectOption{{Value: "closed"}},
	}}
	assert.True(t, Matches(tr, recordSnap(before, props), recordSnap(after, props)))

	// One empty side is unconstrained when the other carries values.
	toOnly := schema.Trigger{Kind: schema.TriggerSelectFieldChange, Payload: schema.TriggerPayload{
		Field:    "stage",
		ToValues: []schema.SelectOption{{Value: "closed"}},
	}}
	assert.True(t, Matches(toOnly, recordSnap(before, props), recordSnap(after, props)))

	// Both sides empty disables the trigger.
	disabled := schema.Trigger{Kind: schema.TriggerSelectFieldChange, Payload: schema.TriggerPayload{
		Field: "stage",
	}}
	assert.False(t, Matches(disabled, recordSnap(before, props), recordSnap(after, props)))

	// Value did not change.
	assert.False(t, Matches(tr, recordSnap(after, props), recordSnap(after, props)))

	// Undeclared field never matches.
	ghost := schema.Trigger{Kind: schema.TriggerSelectFieldChange, Payload: schema.TriggerPayload{
		Field:    "ghost",
		ToValues: []schema.SelectOption{{Value: "closed"}},
	}}
	assert.False(t, Matches(ghost, recordSnap(before, props), recordSnap(after, props)))
}

func TestNilSnapshotsNeverMatch(t *testing.T) {
	tr := schema.Trigger{Kind: schema.TriggerColumnChange, Payload: schema.TriggerPayload{To: strp("done")}}
	assert.False(t, Matches(tr, Snapshot{}, cardSnap(card(nil))))
	assert.False(t, Matches(tr, cardSnap(card(nil)), Snapshot{}))
}
