package action

import (
	"context"
	"fmt"

	"github.com/loomhq/loom/internal/schema"
)

// Resolver fetches the cross-entity references action handlers need.
// Implementations live outside the engine (the repository layer); the
// store package provides one for the CLI and tests.
type Resolver interface {
	GetCircleByID(ctx context.Context, id string) (*schema.Circle, error)
	GetCollectionBySlug(ctx context.Context, slug string) (*schema.Collection, error)
	GetUserByID(ctx context.Context, id string) (*schema.User, error)
}

// EmailMessage is the payload handed to the email sink.
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
}

// Sinks groups the external side-effect targets. Each call returns
// success or failure only; the engine never interprets the payload
// further.
type Sinks interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	GrantRole(ctx context.Context, circleID, userID string, roles []string) error
	PostToChat(ctx context.Context, channel, message string) error
}

// DataContainer is the pass-local scratch space actions use to resolve
// cross-entity lookups. Entries are written once per key and read many
// times within the pass; the container is discarded with the pass.
type DataContainer struct {
	resolver    Resolver
	circles     map[string]*schema.Circle
	collections map[string]*schema.Collection
	users       map[string]*schema.User
}

// NewDataContainer creates an empty container over a resolver.
func NewDataContainer(r Resolver) *DataContainer {
	return &DataContainer{
		resolver:    r,
		circles:     make(map[string]*schema.Circle),
		collections: make(map[string]*schema.Collection),
		users:       make(map[string]*schema.User),
	}
}

// Circle returns the circle by id, fetching it at most once per pass.
func (d *DataContainer) Circle(ctx context.Context, id string) (*schema.Circle, error) {
	if c, ok := d.circles[id]; ok {
		return c, nil
	}
	if d.resolver == nil {
		return nil, fmt.Errorf("no resolver configured")
	}
	c, err := d.resolver.GetCircleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve circle %s: %w", id, err)
	}
	d.circles[id] = c
	return c, nil
}

// Collection returns the collection by slug, fetching it at most once per
// pass.
func (d *DataContainer) Collection(ctx context.Context, slug string) (*schema.Collection, error) {
	if c, ok := d.collections[slug]; ok {
		return c, nil
	}
	if d.resolver == nil {
		return nil, fmt.Errorf("no resolver configured")
	}
	c, err := d.resolver.GetCollectionBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("resolve collection %s: %w", slug, err)
	}
	d.collections[slug] = c
	return c, nil
}

// User returns the user by id, fetching it at most once per pass.
func (d *DataContainer) User(ctx context.Context, id string) (*schema.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	if d.resolver == nil {
		return nil, fmt.Errorf("no resolver configured")
	}
	u, err := d.resolver.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve user %s: %w", id, err)
	}
	d.users[id] = u
	return u, nil
}
