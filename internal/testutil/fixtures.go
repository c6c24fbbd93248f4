// Package testutil provides fixture builders and collaborator fakes
// shared by engine, action, and harness tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/loomhq/loom/internal/action"
	"github.com/loomhq/loom/internal/schema"
)

// Card returns a card snapshot with sensible defaults, customized by mut.
func Card(mut func(*schema.Card)) *schema.Card {
	c := &schema.Card{
		ID:        "card-1",
		Title:     "fix login flow",
		CircleID:  "circle-1",
		ProjectID: "project-1",
		ColumnID:  "wip",
		Status:    schema.CardStatus{Active: true},
		Priority:  3,
		Type:      "Task",
		Assignee:  []string{"user-1"},
	}
	if mut != nil {
		mut(c)
	}
	return c
}

// Project returns a two-column board holding card-1 in wip.
func Project(mut func(*schema.Project)) *schema.Project {
	p := &schema.Project{
		ID:       "project-1",
		Name:     "Platform",
		CircleID: "circle-1",
		Columns: map[string]schema.Column{
			"wip":  {ID: "wip", Name: "In Progress", Cards: []string{"card-1", "card-2"}},
			"done": {ID: "done", Name: "Done", Cards: []string{"card-3"}},
		},
		ColumnOrder: []string{"wip", "done"},
	}
	if mut != nil {
		mut(p)
	}
	return p
}

// Circle returns a workspace with two members.
func Circle(mut func(*schema.Circle)) *schema.Circle {
	c := &schema.Circle{
		ID:      "circle-1",
		Name:    "Acme",
		Members: []string{"user-1", "user-2"},
		MemberRoles: map[string][]string{
			"user-1": {"steward"},
		},
	}
	if mut != nil {
		mut(c)
	}
	return c
}

// Collection returns a grant-application collection with one record.
func Collection(mut func(*schema.Collection)) *schema.Collection {
	c := &schema.Collection{
		ID:       "coll-1",
		Slug:     "grants",
		Name:     "Grant Applications",
		CircleID: "circle-1",
		Properties: schema.PropertySchema{
			"status": {Name: "status", Kind: schema.PropertySingleSelect, Options: []schema.SelectOption{
				{Label: "Submitted", Value: "submitted"},
				{Label: "Accepted", Value: "accepted"},
				{Label: "Rejected", Value: "rejected"},
			}},
			"amount": {Name: "amount", Kind: schema.PropertyNumber},
			"title":  {Name: "title", Kind: schema.PropertyShortText},
		},
		PropertyOrder: []string{"title", "status", "amount"},
		Data: map[string]schema.Record{
			"rec-1": {
				"title":  "Tooling grant",
				"status": map[string]any{"label": "Submitted", "value": "submitted"},
				"amount": 500,
			},
		},
		DataOwner: map[string]string{"rec-1": "user-2"},
	}
	if mut != nil {
		mut(c)
	}
	return c
}

// FakeResolver serves entities from in-memory maps.
type FakeResolver struct {
	Circles     map[string]*schema.Circle
	Collections map[string]*schema.Collection
	Users       map[string]*schema.User

	// Calls counts lookups per method, for write-once cache assertions.
	mu    sync.Mutex
	Calls map[string]int
}

// NewFakeResolver seeds a resolver with the standard fixtures.
func NewFakeResolver() *FakeResolver {
	return &FakeResolver{
		Circles:     map[string]*schema.Circle{"circle-1": Circle(nil)},
		Collections: map[string]*schema.Collection{"grants": Collection(nil)},
		Users: map[string]*schema.User{
			"user-1": {ID: "user-1", Username: "ada", Email: "ada@example.com"},
			"user-2": {ID: "user-2", Username: "lin", Email: "lin@example.com"},
		},
		Calls: make(map[string]int),
	}
}

func (f *FakeResolver) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[method]++
}

func (f *FakeResolver) GetCircleByID(_ context.Context, id string) (*schema.Circle, error) {
	f.count("circle")
	if c, ok := f.Circles[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("circle %s not found", id)
}

func (f *FakeResolver) GetCollectionBySlug(_ context.Context, slug string) (*schema.Collection, error) {
	f.count("collection")
	if c, ok := f.Collections[slug]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("collection %s not found", slug)
}

func (f *FakeResolver) GetUserByID(_ context.Context, id string) (*schema.User, error) {
	f.count("user")
	if u, ok := f.Users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s not found", id)
}

// FakeSinks records side-effect calls and can inject failures.
type FakeSinks struct {
	mu sync.Mutex

	Emails []action.EmailMessage
	Grants []GrantCall
	Posts  []ChatPost

	FailEmail error
	FailGrant error
	FailChat  error
}

// GrantCall is one recorded GrantRole invocation.
type GrantCall struct {
	CircleID string
	UserID   string
	Roles    []string
}

// ChatPost is one recorded PostToChat invocation.
type ChatPost struct {
	Channel string
	Message string
}

func (f *FakeSinks) SendEmail(_ context.Context, msg action.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailEmail != nil {
		return f.FailEmail
	}
	f.Emails = append(f.Emails, msg)
	return nil
}

func (f *FakeSinks) GrantRole(_ context.Context, circleID, userID string, roles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGrant != nil {
		return f.FailGrant
	}
	f.Grants = append(f.Grants, GrantCall{CircleID: circleID, UserID: userID, Roles: roles})
	return nil
}

func (f *FakeSinks) PostToChat(_ context.Context, channel, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailChat != nil {
		return f.FailChat
	}
	f.Posts = append(f.Posts, ChatPost{Channel: channel, Message: message})
	return nil
}
