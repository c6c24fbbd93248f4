package store

import (
	"context"
	"fmt"

	"github.com/loomhq/loom/internal/schema"
)

// PutAutomation upserts one automation definition at a position within
// its owner's evaluation order.
//
// Uses ON CONFLICT(id) DO UPDATE so saving an edited automation replaces
// the stored definition in place, keeping its id stable for logs.
func (s *Store) PutAutomation(ctx context.Context, ownerType schema.OwnerType, ownerID string, position int, a schema.Automation) error {
	definition, err := marshalDocument(a)
	if err != nil {
		return fmt.Errorf("put automation: %w", err)
	}

	active := 0
	if a.Active {
		active = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO automations (id, owner_type, owner_id, position, active, definition)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_type = excluded.owner_type,
			owner_id   = excluded.owner_id,
			position   = excluded.position,
			active     = excluded.active,
			definition = excluded.definition
	`,
		a.ID,
		string(ownerType),
		ownerID,
		position,
		active,
		definition,
	)
	if err != nil {
		return fmt.Errorf("put automation: %w", err)
	}

	return nil
}

// DeleteAutomation removes one automation by id. Deleting an unknown id
// is a no-op.
func (s *Store) DeleteAutomation(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM automations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete automation: %w", err)
	}
	return nil
}

// putDocument upserts one entity document into a table.
func (s *Store) putDocument(ctx context.Context, table, id string, v any) error {
	document, err := marshalDocument(v)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`
			INSERT INTO %s (id, document) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET document = excluded.document
		`, table),
		id, document,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

// PutCard upserts one card document.
func (s *Store) PutCard(ctx context.Context, c *schema.Card) error {
	return s.putDocument(ctx, "cards", c.ID, c)
}

// PutProject upserts one project document.
func (s *Store) PutProject(ctx context.Context, p *schema.Project) error {
	return s.putDocument(ctx, "projects", p.ID, p)
}

// PutCircle upserts one circle document.
func (s *Store) PutCircle(ctx context.Context, c *schema.Circle) error {
	return s.putDocument(ctx, "circles", c.ID, c)
}

// PutUser upserts one user document.
func (s *Store) PutUser(ctx context.Context, u *schema.User) error {
	return s.putDocument(ctx, "users", u.ID, u)
}

// PutCollection upserts one collection document. The slug column is kept
// in sync so GetCollectionBySlug stays an indexed lookup.
func (s *Store) PutCollection(ctx context.Context, c *schema.Collection) error {
	document, err := marshalDocument(c)
	if err != nil {
		return fmt.Errorf("put collection: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (id, slug, document) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET slug = excluded.slug, document = excluded.document
	`, c.ID, c.Slug, document)
	if err != nil {
		return fmt.Errorf("put collection: %w", err)
	}
	return nil
}
