package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/loomhq/loom/internal/action"
	"github.com/loomhq/loom/internal/condition"
	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/trigger"
	"github.com/loomhq/loom/internal/updates"
)

// PassIDGenerator generates unique pass ids for log correlation.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
// See pass.go for implementations.
type PassIDGenerator interface {
	Generate() string
}

// AutomationSource loads an owner's automations in stored position
// order. The store package provides the sqlite-backed implementation.
type AutomationSource interface {
	GetAutomationsForOwner(ctx context.Context, ownerID string) ([]schema.Automation, error)
}

// Engine runs automation passes.
//
// INVARIANTS:
//   - Automations evaluate in the order the source returns them
//   - Actions within an automation execute in declaration order
//   - A pass never re-enters itself: produced updates do not fire triggers
type Engine struct {
	source      AutomationSource
	resolver    action.Resolver
	sinks       action.Sinks
	passGen     PassIDGenerator
	sinkTimeout time.Duration
	log         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPassIDGenerator overrides the pass id generator, usually with a
// FixedGenerator in tests.
func WithPassIDGenerator(g PassIDGenerator) Option {
	return func(e *Engine) { e.passGen = g }
}

// WithSinkTimeout bounds each external side-effect call.
func WithSinkTimeout(d time.Duration) Option {
	return func(e *Engine) { e.sinkTimeout = d }
}

// WithLogger sets the pass logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine over an automation source, a resolver for
// cross-entity lookups, and the side-effect sinks.
func New(source AutomationSource, resolver action.Resolver, sinks action.Sinks, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		resolver: resolver,
		sinks:    sinks,
		passGen:  UUIDv7Generator{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunAutomations executes one pass for a committed mutation and returns
// the merged partial updates of every action that ran.
//
// The returned container is never nil on success; an event that fires
// nothing yields an empty container. Only a failed automation load
// returns an error (OWNER_LOAD_FAILED); action failures are classified
// (LOOKUP_FAILED, SINK_FAILED, UNKNOWN_KIND), logged with the automation
// id and action index, and do not surface here.
func (e *Engine) RunAutomations(ctx context.Context, ev Event) (*updates.Container, error) {
	automations, err := e.source.GetAutomationsForOwner(ctx, ev.OwnerID)
	if err != nil {
		return nil, NewOwnerLoadError(ev.OwnerID, err)
	}

	passID := e.passGen.Generate()
	log := e.log.With("pass", passID, "owner", ev.OwnerID)

	relevant := relevantTriggerKinds(ev)
	before, after := ev.snapshots()
	record, props := ev.conditionInput()

	// One lookup cache for the whole pass; sibling automations share
	// resolved entities.
	data := action.NewDataContainer(e.resolver)
	result := updates.NewContainer()

	for _, a := range automations {
		if !a.Active {
			continue
		}
		if !relevant[a.Trigger.Kind] {
			continue
		}
		if !trigger.Matches(a.Trigger, before, after) {
			continue
		}
		if !conditionsHold(a, record, props) {
			continue
		}

		log.Debug("automation fired",
			"automation", a.ID,
			"trigger", a.Trigger.Kind,
			"actions", len(a.Actions))

		actx := &action.Context{
			CallerID:    ev.CallerID,
			PassID:      passID,
			Card:        ev.CardAfter,
			Project:     ev.Project,
			Circle:      ev.Circle,
			Collection:  ev.Collection,
			RecordID:    ev.RecordID,
			Data:        data,
			Sinks:       e.sinks,
			SinkTimeout: e.sinkTimeout,
		}
		for i, act := range a.Actions {
			c, execErr := action.Execute(ctx, act, actx)
			if execErr != nil {
				rerr := NewActionError(a.ID, i, ev.OwnerID, execErr)
				log.Warn("action failed",
					"automation", a.ID,
					"action", i,
					"kind", act.Kind,
					"code", rerr.Code,
					"error", rerr)
				continue
			}
			result.Apply(c)
		}
	}
	return result, nil
}

// conditionsHold evaluates whichever condition shape the automation
// stores. RootGroup wins when both are present; neither present means
// the trigger alone decides.
func conditionsHold(a schema.Automation, record schema.Record, props schema.PropertySchema) bool {
	if a.RootGroup != nil {
		return condition.EvaluateGroup(*a.RootGroup, record, props)
	}
	return condition.Evaluate(a.Conditions, record, props, a.Operator)
}
