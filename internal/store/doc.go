// Package store provides durable storage for automation definitions and
// entity documents.
//
// Automations are stored per owner with an explicit position column; the
// engine's evaluation order is exactly the ascending position order, so
// reordering an owner's automations is a position rewrite, never a
// re-insert.
//
// Entity documents (cards, projects, circles, collections, users) are
// stored as JSON blobs keyed by id. The store only round-trips them; all
// interpretation happens in the schema package types they unmarshal into.
//
// The store satisfies both collaborator interfaces the engine consumes:
// engine.AutomationSource and action.Resolver.
package store
