package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/loomhq/loom/internal/schema"
)

// GetAutomationsForOwner returns an owner's automations in evaluation
// order: ORDER BY position ASC, id ASC for a stable tiebreak.
//
// Returns an empty slice (not nil) when the owner has no automations.
// The stored active flag wins over whatever the definition blob says, so
// toggling an automation is a one-column update.
func (s *Store) GetAutomationsForOwner(ctx context.Context, ownerID string) ([]schema.Automation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT definition, active
		FROM automations
		WHERE owner_id = ?
		ORDER BY position ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query automations: %w", err)
	}
	defer rows.Close()

	automations := []schema.Automation{}
	for rows.Next() {
		var definition string
		var active int
		if err := rows.Scan(&definition, &active); err != nil {
			return nil, fmt.Errorf("scan automation: %w", err)
		}
		var a schema.Automation
		if err := unmarshalDocument(definition, &a); err != nil {
			return nil, fmt.Errorf("automation definition: %w", err)
		}
		a.Active = active != 0
		automations = append(automations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automations: %w", err)
	}

	return automations, nil
}

// getDocument reads one entity document by id.
func (s *Store) getDocument(ctx context.Context, table, id string, v any) error {
	var document string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT document FROM %s WHERE id = ?`, table), id,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s not found", table, id)
	}
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	return unmarshalDocument(document, v)
}

// GetCardByID returns one card document.
func (s *Store) GetCardByID(ctx context.Context, id string) (*schema.Card, error) {
	var c schema.Card
	if err := s.getDocument(ctx, "cards", id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetProjectByID returns one project document.
func (s *Store) GetProjectByID(ctx context.Context, id string) (*schema.Project, error) {
	var p schema.Project
	if err := s.getDocument(ctx, "projects", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCircleByID returns one circle document.
func (s *Store) GetCircleByID(ctx context.Context, id string) (*schema.Circle, error) {
	var c schema.Circle
	if err := s.getDocument(ctx, "circles", id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetUserByID returns one user document.
func (s *Store) GetUserByID(ctx context.Context, id string) (*schema.User, error) {
	var u schema.User
	if err := s.getDocument(ctx, "users", id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetCollectionBySlug returns one collection document by its slug.
func (s *Store) GetCollectionBySlug(ctx context.Context, slug string) (*schema.Collection, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM collections WHERE slug = ?`, slug,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %s not found", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	var c schema.Collection
	if err := unmarshalDocument(document, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
