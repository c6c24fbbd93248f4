// Package action executes the typed actions of a satisfied automation.
//
// Each action kind maps to exactly one executor through a flat dispatch
// table. An executor receives the committed snapshot of the entity it
// mutates - never a partially-applied container from an earlier action in
// the same pass - and returns a fresh partial-update container for the
// orchestrator to merge. This keeps every executor pure and independently
// testable.
//
// Errors are per-action: a missing reference or a failed external call is
// returned to the orchestrator, which logs it and moves on to the next
// action. Nothing in this package aborts a pass.
package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/updates"
)

// DefaultSinkTimeout bounds one external side-effect call.
const DefaultSinkTimeout = 10 * time.Second

// Sentinel causes the orchestrator classifies isolated action failures
// by. Executors wrap them with %w; everything else counts as an
// unresolved reference.
var (
	// ErrUnknownKind marks an action whose kind has no registered
	// executor.
	ErrUnknownKind = errors.New("unknown action kind")

	// ErrSinkFailed marks a failed external side-effect call.
	ErrSinkFailed = errors.New("sink call failed")
)

// Context carries the execution context of one action: who triggered the
// pass, which entities it targets, and the collaborators for cross-entity
// lookups and side effects.
type Context struct {
	// CallerID is the user whose mutation started the pass.
	CallerID string
	// PassID correlates everything one orchestration pass produces.
	PassID string

	// Committed snapshots of the entities this pass may touch. Card
	// actions require Card (and Project for column moves); data
	// automations populate Collection and RecordID instead.
	Card       *schema.Card
	Project    *schema.Project
	Circle     *schema.Circle
	Collection *schema.Collection
	RecordID   string

	// Data is the pass-local lookup cache backed by Resolver.
	Data *DataContainer

	// Sinks receive side effects. Nil sinks make side-effecting actions
	// fail (and be isolated) rather than panic.
	Sinks Sinks

	// SinkTimeout bounds each external call; zero means
	// DefaultSinkTimeout.
	SinkTimeout time.Duration
}

func (c *Context) sinkTimeout() time.Duration {
	if c.SinkTimeout > 0 {
		return c.SinkTimeout
	}
	return DefaultSinkTimeout
}

// Executor computes the partial updates for one action kind.
type Executor func(ctx context.Context, act schema.Action, actx *Context) (*updates.Container, error)

// executors is the kind dispatch table.
var executors = map[schema.ActionKind]Executor{
	schema.ActionChangeStatus:      executeChangeStatus,
	schema.ActionCloseCard:         executeCloseCard,
	schema.ActionChangeColumn:      executeChangeColumn,
	schema.ActionChangeMember:      executeChangeMember,
	schema.ActionChangeLabel:       executeChangeLabel,
	schema.ActionChangeSimpleField: executeChangeSimpleField,
	schema.ActionSendEmail:         executeSendEmail,
	schema.ActionGiveRole:          executeGiveRole,
	schema.ActionCreateCard:        executeCreateCard,
}

// Execute dispatches one action to its executor.
func Execute(ctx context.Context, act schema.Action, actx *Context) (*updates.Container, error) {
	exec, ok := executors[act.Kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, act.Kind)
	}
	return exec(ctx, act, actx)
}

// Registered reports whether an executor exists for the kind. The
// definition validator uses it to keep the table and the schema enum in
// lockstep.
func Registered(kind schema.ActionKind) bool {
	_, ok := executors[kind]
	return ok
}
