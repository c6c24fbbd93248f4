// Package trigger decides whether an automation's trigger fires for one
// mutation, given the entity's before and after snapshots.
//
// Dispatch is a flat lookup table keyed by the trigger kind string. The
// kind set is closed and externally visible in persisted automation
// definitions, so adding a kind means adding one table entry, never a
// subtype.
//
// Unlike condition evaluation, trigger matching has NO leniency: a
// payload that under-specifies its pattern (a basic trigger with neither
// from nor to) is an explicit reject, not a vacuous match. The two
// behaviors are intentionally different and must not be unified.
package trigger

import "github.com/loomhq/loom/internal/schema"

// Snapshot is one side of a mutation as the matcher sees it. Card
// mutations populate Card; collection-record mutations populate Record
// and Props.
type Snapshot struct {
	Card   *schema.Card
	Record schema.Record
	Props  schema.PropertySchema
}

// matchFunc is one pure trigger predicate. All registered funcs must be
// total: any payload and any snapshot pair yields a boolean.
type matchFunc func(p schema.TriggerPayload, before, after Snapshot) bool

// matchers is the kind dispatch table. Registration order is irrelevant;
// only the engine's automation order matters for determinism.
var matchers = map[schema.TriggerKind]matchFunc{
	schema.TriggerStatusChange:      matchStatusChange,
	schema.TriggerColumnChange:      matchColumnChange,
	schema.TriggerTypeChange:        matchTypeChange,
	schema.TriggerPriorityChange:    matchPriorityChange,
	schema.TriggerDeadlineChange:    matchDeadlineChange,
	schema.TriggerAssigneeChange:    matchAssigneeChange,
	schema.TriggerReviewerChange:    matchReviewerChange,
	schema.TriggerSelectFieldChange: matchSelectFieldChange,
}

// Matches reports whether the trigger fires for the before/after pair.
// Unknown trigger kinds never match.
func Matches(tr schema.Trigger, before, after Snapshot) bool {
	match, ok := matchers[tr.Kind]
	if !ok {
		return false
	}
	return match(tr.Payload, before, after)
}
