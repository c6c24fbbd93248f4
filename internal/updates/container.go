// Package updates accumulates the partial entity updates produced by one
// automation pass. A Container is created at the start of a pass, filled
// by action executors in declaration order, and handed to the caller for
// a single atomic persistence step. It is never retained across passes.
package updates

import "github.com/loomhq/loom/internal/schema"

// EntityKind names the aggregate a partial update applies to.
type EntityKind string

const (
	KindCard       EntityKind = "card"
	KindProject    EntityKind = "project"
	KindCircle     EntityKind = "circle"
	KindCollection EntityKind = "collection"
	KindRetro      EntityKind = "retro"
)

// Partial is a field-by-field update to one entity document. Values may
// themselves be Partial for nested documents (project columns, collection
// data), in which case merging recurses.
type Partial map[string]any

// Container holds per-entity, per-id partial updates for one pass.
//
// Every id keyed here must belong to an entity that existed before the
// pass began; the engine never invents documents through a merge. Created
// cards travel in NewCards with their ids already assigned, so the caller
// distinguishes inserts from updates.
type Container struct {
	Card       map[string]Partial `json:"card,omitempty"`
	Project    map[string]Partial `json:"project,omitempty"`
	Circle     map[string]Partial `json:"circle,omitempty"`
	Collection map[string]Partial `json:"collection,omitempty"`
	Retro      map[string]Partial `json:"retro,omitempty"`

	NewCards []schema.Card `json:"newCards,omitempty"`
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// bucket returns the map for a kind, allocating it on first use.
func (c *Container) bucket(kind EntityKind) map[string]Partial {
	switch kind {
	case KindCard:
		if c.Card == nil {
			c.Card = make(map[string]Partial)
		}
		return c.Card
	case KindProject:
		if c.Project == nil {
			c.Project = make(map[string]Partial)
		}
		return c.Project
	case KindCircle:
		if c.Circle == nil {
			c.Circle = make(map[string]Partial)
		}
		return c.Circle
	case KindCollection:
		if c.Collection == nil {
			c.Collection = make(map[string]Partial)
		}
		return c.Collection
	case KindRetro:
		if c.Retro == nil {
			c.Retro = make(map[string]Partial)
		}
		return c.Retro
	}
	return nil
}

// Merge folds a partial update for one entity into the container.
// Scalar fields from later merges override earlier ones; nested Partial
// values merge recursively so sibling actions touching different columns
// of the same project do not clobber each other. Array-valued fields are
// plain scalars here - the action that owns the array computes its final
// value before merging.
func (c *Container) Merge(kind EntityKind, id string, p Partial) {
	if len(p) == 0 || id == "" {
		return
	}
	bucket := c.bucket(kind)
	if bucket == nil {
		return
	}
	existing, ok := bucket[id]
	if !ok {
		existing = make(Partial, len(p))
		bucket[id] = existing
	}
	mergePartial(existing, p)
}

// Apply folds another container into this one, preserving the other
// container's internal order semantics (its fields already reflect
// later-wins within itself).
func (c *Container) Apply(other *Container) {
	if other == nil {
		return
	}
	for id, p := range other.Card {
		c.Merge(KindCard, id, p)
	}
	for id, p := range other.Project {
		c.Merge(KindProject, id, p)
	}
	for id, p := range other.Circle {
		c.Merge(KindCircle, id, p)
	}
	for id, p := range other.Collection {
		c.Merge(KindCollection, id, p)
	}
	for id, p := range other.Retro {
		c.Merge(KindRetro, id, p)
	}
	c.NewCards = append(c.NewCards, other.NewCards...)
}

// mergePartial writes src fields into dst, recursing where both sides
// hold a nested Partial for the same key.
func mergePartial(dst, src Partial) {
	for k, v := range src {
		sv, srcNested := v.(Partial)
		dv, dstNested := dst[k].(Partial)
		if srcNested && dstNested {
			mergePartial(dv, sv)
			continue
		}
		if srcNested {
			// Copy so later merges into dst never reach into the
			// executor's own map.
			cp := make(Partial, len(sv))
			mergePartial(cp, sv)
			dst[k] = cp
			continue
		}
		dst[k] = v
	}
}

// IsEmpty reports whether the pass produced no updates at all.
func (c *Container) IsEmpty() bool {
	return len(c.Card) == 0 && len(c.Project) == 0 && len(c.Circle) == 0 &&
		len(c.Collection) == 0 && len(c.Retro) == 0 && len(c.NewCards) == 0
}

// Len returns the total number of entity documents touched.
func (c *Container) Len() int {
	return len(c.Card) + len(c.Project) + len(c.Circle) + len(c.Collection) +
		len(c.Retro) + len(c.NewCards)
}
