package action

import (
	"context"
	"fmt"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/updates"
)

// executeChangeMember edits the card's assignee or reviewer list.
func executeChangeMember(_ context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	if actx.Card == nil {
		return nil, fmt.Errorf("changeMember: no card in context")
	}
	var field string
	var current []string
	switch act.Payload.Member {
	case schema.MemberReviewer:
		field, current = "reviewer", actx.Card.Reviewer
	case schema.MemberAssignee, "":
		field, current = "assignee", actx.Card.Assignee
	default:
		return nil, fmt.Errorf("changeMember: unknown member kind %q", act.Payload.Member)
	}

	c := updates.NewContainer()
	c.Merge(updates.KindCard, actx.Card.ID, updates.Partial{
		field: applyListVerb(act.Payload, current),
	})
	return c, nil
}

// executeChangeLabel edits the card's label list with the same verb
// semantics as changeMember.
func executeChangeLabel(_ context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	if actx.Card == nil {
		return nil, fmt.Errorf("changeLabel: no card in context")
	}
	c := updates.NewContainer()
	c.Merge(updates.KindCard, actx.Card.ID, updates.Partial{
		"labels": applyListVerb(act.Payload, actx.Card.Labels),
	})
	return c, nil
}

// applyListVerb applies exactly one of the four list verbs. Verbs are
// mutually exclusive; when an instance carries several, only the first
// present in set, add, remove, clear priority order applies.
func applyListVerb(p schema.ActionPayload, current []string) []string {
	switch {
	case p.Set != nil:
		return dedupe(p.Set)
	case p.Add != nil:
		return union(current, p.Add)
	case p.Remove != nil:
		return difference(current, p.Remove)
	case p.Clear:
		return []string{}
	}
	return current
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// union appends additions not already present, preserving current order.
func union(current, add []string) []string {
	out := make([]string, 0, len(current)+len(add))
	seen := make(map[string]bool, len(current)+len(add))
	for _, v := range current {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range add {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func difference(current, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, v := range remove {
		drop[v] = true
	}
	out := make([]string, 0, len(current))
	for _, v := range current {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}
