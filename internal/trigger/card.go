package trigger

import "github.com/loomhq/loom/internal/schema"

// statusFlags projects a card's status onto the keyed flag map the
// status trigger constrains.
func statusFlags(c *schema.Card) map[string]bool {
	return map[string]bool{
		"active":   c.Status.Active,
		"paid":     c.Status.Paid,
		"archived": c.Status.Archived,
	}
}

// matchStatusChange: for every key present in FromStatus the before flag
// must equal it, and every key in ToStatus must equal the after flag.
// Keys not mentioned are unconstrained; a key outside the flag set
// rejects rather than comparing against a zero value. Both maps must be
// present or the trigger never matches.
func matchStatusChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	if p.FromStatus == nil || p.ToStatus == nil {
		return false
	}
	bf := statusFlags(before.Card)
	af := statusFlags(after.Card)
	for key, want := range p.FromStatus {
		have, known := bf[key]
		if !known || have != want {
			return false
		}
	}
	for key, want := range p.ToStatus {
		have, known := af[key]
		if !known || have != want {
			return false
		}
	}
	return true
}

// matchBasicField implements the shared from/to semantics of the basic
// field-change triggers: from (if present) must equal the before value
// AND differ from the after value; to (if present) must equal the after
// value AND differ from the before value. Neither present is an explicit
// reject.
func matchBasicField(from, to *string, beforeVal, afterVal string) bool {
	if from == nil && to == nil {
		return false
	}
	if from != nil && (*from != beforeVal || *from == afterVal) {
		return false
	}
	if to != nil && (*to != afterVal || *to == beforeVal) {
		return false
	}
	return true
}

func matchColumnChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	return matchBasicField(p.From, p.To, before.Card.ColumnID, after.Card.ColumnID)
}

func matchTypeChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	return matchBasicField(p.From, p.To, before.Card.Type, after.Card.Type)
}

// matchPriorityChange mirrors matchBasicField over the numeric priority
// levels.
func matchPriorityChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	if p.FromLevel == nil && p.ToLevel == nil {
		return false
	}
	bv, av := before.Card.Priority, after.Card.Priority
	if p.FromLevel != nil && (*p.FromLevel != bv || *p.FromLevel == av) {
		return false
	}
	if p.ToLevel != nil && (*p.ToLevel != av || *p.ToLevel == bv) {
		return false
	}
	return true
}

// matchDeadlineChange fires when the deadline instant changed. The
// optional DeadlineSet / DeadlineCleared flags constrain the direction.
func matchDeadlineChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Card == nil || after.Card == nil {
		return false
	}
	bd, ad := before.Card.Deadline, after.Card.Deadline
	if bd.Equal(ad) {
		return false
	}
	if p.DeadlineSet && !(bd.IsZero() && !ad.IsZero()) {
		return false
	}
	if p.DeadlineCleared && !(!bd.IsZero() && ad.IsZero()) {
		return false
	}
	return true
}
