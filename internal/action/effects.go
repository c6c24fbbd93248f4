package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/updates"
)

// executeSendEmail resolves recipient addresses and hands the message to
// the email sink under a bounded timeout. A sink failure is an action
// failure: the orchestrator logs it and sibling actions proceed.
func executeSendEmail(ctx context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	spec := act.Payload.Email
	if spec == nil {
		return nil, fmt.Errorf("sendEmail: payload has no email spec")
	}
	if actx.Sinks == nil {
		return nil, fmt.Errorf("sendEmail: no sinks configured")
	}

	recipients := append([]string(nil), spec.To...)
	if spec.ToRecordOwner {
		ownerID, err := recordOwner(actx)
		if err != nil {
			return nil, fmt.Errorf("sendEmail: %w", err)
		}
		recipients = append(recipients, ownerID)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("sendEmail: no recipients")
	}

	addresses := make([]string, 0, len(recipients))
	for _, userID := range recipients {
		u, err := actx.Data.User(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("sendEmail: %w", err)
		}
		if u.Email != "" {
			addresses = append(addresses, u.Email)
		}
	}
	if len(addresses) == 0 {
		slog.Debug("sendEmail: recipients have no addresses", "pass", actx.PassID)
		return updates.NewContainer(), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, actx.sinkTimeout())
	defer cancel()
	if err := actx.Sinks.SendEmail(callCtx, EmailMessage{
		To:      addresses,
		Subject: spec.Subject,
		Body:    spec.Body,
	}); err != nil {
		return nil, fmt.Errorf("sendEmail: %w: %w", ErrSinkFailed, err)
	}
	return updates.NewContainer(), nil
}

// executeGiveRole grants roles inside the circle: the membership update
// travels in the container, the grant call goes to the role sink. A sink
// failure after the update was computed still fails the action - the
// action contributes no partial update unless the grant went through.
func executeGiveRole(ctx context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	if len(act.Payload.Roles) == 0 {
		return nil, fmt.Errorf("giveRole: payload has no roles")
	}
	if actx.Sinks == nil {
		return nil, fmt.Errorf("giveRole: no sinks configured")
	}

	circle := actx.Circle
	if circle == nil {
		if actx.Card == nil {
			return nil, fmt.Errorf("giveRole: no circle in context")
		}
		var err error
		circle, err = actx.Data.Circle(ctx, actx.Card.CircleID)
		if err != nil {
			return nil, fmt.Errorf("giveRole: %w", err)
		}
	}

	targets := append([]string(nil), act.Payload.UserIDs...)
	if act.Payload.ToAssignees {
		if actx.Card == nil {
			return nil, fmt.Errorf("giveRole: toAssignees without a card")
		}
		targets = append(targets, actx.Card.Assignee...)
	}
	targets = dedupe(targets)
	if len(targets) == 0 {
		return nil, fmt.Errorf("giveRole: no target users")
	}

	roles := updates.Partial{}
	for _, userID := range targets {
		roles[userID] = union(circle.MemberRoles[userID], act.Payload.Roles)
	}

	callCtx, cancel := context.WithTimeout(ctx, actx.sinkTimeout())
	defer cancel()
	for _, userID := range targets {
		if err := actx.Sinks.GrantRole(callCtx, circle.ID, userID, act.Payload.Roles); err != nil {
			return nil, fmt.Errorf("giveRole: %w for user %s: %w", ErrSinkFailed, userID, err)
		}
	}

	c := updates.NewContainer()
	c.Merge(updates.KindCircle, circle.ID, updates.Partial{"memberRoles": roles})
	return c, nil
}

// recordOwner resolves the user who owns the mutated collection record.
func recordOwner(actx *Context) (string, error) {
	if actx.Collection == nil || actx.RecordID == "" {
		return "", fmt.Errorf("no collection record in context")
	}
	ownerID, ok := actx.Collection.DataOwner[actx.RecordID]
	if !ok || ownerID == "" {
		return "", fmt.Errorf("record %s has no owner", actx.RecordID)
	}
	return ownerID, nil
}
