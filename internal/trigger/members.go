package trigger

import "github.com/loomhq/loom/internal/schema"

func matchAssigneeChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	return matchMemberChange(p, before.Card.Assignee, after.Card.Assignee)
}

func matchReviewerChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	return matchMemberChange(p, before.Card.Reviewer, after.Card.Reviewer)
}

// matchMemberChange evaluates the member-list sub-conditions. Every
// sub-condition present in the payload must hold (logical AND); they are
// independent of one another. A payload with no sub-conditions at all
// fires on any set change.
func matchMemberChange(p schema.TriggerPayload, before, after []string) bool {
	constrained := false

	if p.FromMembers != nil {
		constrained = true
		if !sameSet(before, p.FromMembers) {
			return false
		}
	}
	if p.ToMembers != nil {
		constrained = true
		if !sameSet(after, p.ToMembers) {
			return false
		}
	}
	if p.FromEmptyToNotEmpty {
		constrained = true
		if len(before) != 0 || len(after) == 0 {
			return false
		}
	}
	if p.FromNotEmptyToEmpty {
		constrained = true
		if len(before) == 0 || len(after) != 0 {
			return false
		}
	}
	// Count sub-conditions: exact before-count plus a strict inequality
	// on the after-count.
	if p.CountReducedFrom != nil {
		constrained = true
		if len(before) != *p.CountReducedFrom || len(after) >= *p.CountReducedFrom {
			return false
		}
	}
	if p.CountIncreasedFrom != nil {
		constrained = true
		if len(before) != *p.CountIncreasedFrom || len(after) <= *p.CountIncreasedFrom {
			return false
		}
	}

	if !constrained {
		return !sameSet(before, after)
	}
	return true
}

// sameSet compares two member lists order-insensitively.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, m := range a {
		seen[m]++
	}
	for _, m := range b {
		seen[m]--
		if seen[m] < 0 {
			return false
		}
	}
	return true
}
