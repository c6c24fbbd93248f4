// Package engine orchestrates one automation pass over one committed
// mutation.
//
// A pass is strictly synchronous and single-threaded: load the owner's
// automations, walk them in stored order, and for each one run trigger
// match, condition evaluation, and action execution. The pass returns a
// single merged updates container; the caller persists it in one step.
//
// DETERMINISM:
// Automations evaluate in stored position order and actions execute in
// declaration order. Later updates override earlier ones field by field,
// so the outcome of a pass is a pure function of the event and the
// stored definitions.
//
// NON-REENTRANCY:
// The updates a pass produces never feed back into trigger matching.
// An automation that closes a card does not fire statusChange
// automations for that close; only external mutations start passes.
// This bounds every pass to one generation and rules out cycles by
// construction.
//
// ERROR ISOLATION:
// A failing action is logged with its automation id and action index,
// then skipped. Sibling actions and later automations still run. Only a
// failure to load the owner's automations aborts the pass.
package engine
