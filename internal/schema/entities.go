package schema

import "time"

// CardStatus is the tri-state lifecycle flag set of a card.
type CardStatus struct {
	Active   bool `json:"active"`
	Paid     bool `json:"paid"`
	Archived bool `json:"archived"`
}

// Card is the committed snapshot of one card. The engine only ever reads
// these; mutations travel as partial updates in an updates container.
type Card struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug,omitempty"`
	CircleID  string     `json:"circleId"`
	ProjectID string     `json:"projectId"`
	ColumnID  string     `json:"columnId"`
	Status    CardStatus `json:"status"`
	Priority  int        `json:"priority"`
	Type      string     `json:"type,omitempty"`
	Deadline  time.Time  `json:"deadline,omitzero"`
	Assignee  []string   `json:"assignee,omitempty"`
	Reviewer  []string   `json:"reviewer,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	CreatorID string     `json:"creatorId,omitempty"`
}

// Column is one lane of a project board, holding card ids in display
// order.
type Column struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

// Project is a board of columns within a circle.
type Project struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	CircleID    string            `json:"circleId"`
	Columns     map[string]Column `json:"columns"`
	ColumnOrder []string          `json:"columnOrder"`
}

// Circle is a workspace. MemberRoles maps user id to granted role names.
type Circle struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Members     []string            `json:"members"`
	MemberRoles map[string][]string `json:"memberRoles"`
}

// Record is one data row of a collection, keyed by property name.
type Record map[string]any

// Collection is a form/table whose rows drive data automations.
type Collection struct {
	ID            string            `json:"id"`
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	CircleID      string            `json:"circleId"`
	Properties    PropertySchema    `json:"properties"`
	PropertyOrder []string          `json:"propertyOrder"`
	Data          map[string]Record `json:"data,omitempty"`
	// DataOwner maps record id to the user who submitted it.
	DataOwner map[string]string `json:"dataOwner,omitempty"`
}

// Retro is a retrospective session; automations only ever toggle its
// lifecycle flag, so the snapshot stays minimal.
type Retro struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	CircleID string `json:"circleId"`
	Active   bool   `json:"active"`
}

// User is the slice of a user document that action handlers need.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CardProperties is the intrinsic pseudo-schema for evaluating conditions
// against a card. Card automations reuse the collection condition
// machinery by projecting the card through CardRecord.
var CardProperties = PropertySchema{
	"title":    {Name: "title", Kind: PropertyShortText},
	"priority": {Name: "priority", Kind: PropertyNumber},
	"type":     {Name: "type", Kind: PropertySingleSelect},
	"deadline": {Name: "deadline", Kind: PropertyDate},
	"column":   {Name: "column", Kind: PropertySingleSelect},
	"assignee": {Name: "assignee", Kind: PropertyUserList},
	"reviewer": {Name: "reviewer", Kind: PropertyUserList},
	"labels":   {Name: "labels", Kind: PropertyMultiSelect},
}

// CardRecord projects a card onto a condition-evaluable record using the
// CardProperties pseudo-schema. Nil cards project to nil so absent data
// keeps failing closed.
func CardRecord(c *Card) Record {
	if c == nil {
		return nil
	}
	rec := Record{
		"title":    c.Title,
		"priority": c.Priority,
		"type":     c.Type,
		"column":   c.ColumnID,
		"assignee": c.Assignee,
		"reviewer": c.Reviewer,
		"labels":   c.Labels,
	}
	if !c.Deadline.IsZero() {
		rec["deadline"] = c.Deadline
	}
	return rec
}
