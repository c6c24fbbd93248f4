// Package schema defines the persisted automation vocabulary and the
// entity snapshots the engine evaluates against.
//
// Everything here is a value type. Automations, triggers, conditions, and
// actions are stored documents - their JSON shapes are a compatibility
// contract and must only grow, never change meaning. The engine treats a
// loaded Automation as a read-only snapshot for the duration of one pass.
//
// Enumerations (PropertyKind, Comparator, TriggerKind, ActionKind) are
// closed sets of string constants. Dispatch elsewhere in the engine is by
// lookup table keyed on these strings; adding a kind means adding a
// constant here and one table entry there, never a new subtype.
package schema
