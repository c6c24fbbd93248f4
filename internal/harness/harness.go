package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/loomhq/loom/internal/action"
	"github.com/loomhq/loom/internal/compiler"
	"github.com/loomhq/loom/internal/engine"
	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/testutil"
	"github.com/loomhq/loom/internal/updates"
)

// Result is the observable outcome of one scenario pass.
type Result struct {
	PassID      string             `json:"pass"`
	Updates     *updates.Container `json:"updates"`
	SideEffects []string           `json:"sideEffects,omitempty"`
}

// memorySource serves compiled automations in authoring order.
type memorySource struct {
	automations []schema.Automation
}

func (m *memorySource) GetAutomationsForOwner(_ context.Context, _ string) ([]schema.Automation, error) {
	return m.automations, nil
}

// capturedSinks records side effects as strings for golden comparison.
type capturedSinks struct {
	captured []string
}

func (c *capturedSinks) SendEmail(_ context.Context, msg action.EmailMessage) error {
	c.captured = append(c.captured, fmt.Sprintf("email to %v: %s", msg.To, msg.Subject))
	return nil
}

func (c *capturedSinks) GrantRole(_ context.Context, circleID, userID string, roles []string) error {
	c.captured = append(c.captured, fmt.Sprintf("grant %v to %s in %s", roles, userID, circleID))
	return nil
}

func (c *capturedSinks) PostToChat(_ context.Context, channel, message string) error {
	c.captured = append(c.captured, fmt.Sprintf("chat %s: %s", channel, message))
	return nil
}

// Run executes one scenario: compile its rules, build the mutation event
// over the standard fixtures, and run a single pass.
func Run(scenario *Scenario) (*Result, error) {
	src, err := os.ReadFile(scenario.Rules)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	automations, err := compiler.CompileFile(scenario.Rules, src)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}
	for i := range automations {
		if errs := compiler.Validate(&automations[i]); len(errs) > 0 {
			return nil, fmt.Errorf("invalid rule %s: %s", automations[i].ID, errs[0])
		}
	}

	ev, err := buildEvent(scenario.Mutation)
	if err != nil {
		return nil, err
	}

	sinks := &capturedSinks{}
	e := engine.New(
		&memorySource{automations: automations},
		testutil.NewFakeResolver(),
		sinks,
		engine.WithPassIDGenerator(engine.NewFixedGenerator(scenario.PassID)),
	)

	container, err := e.RunAutomations(context.Background(), ev)
	if err != nil {
		return nil, err
	}

	return &Result{
		PassID:      scenario.PassID,
		Updates:     container,
		SideEffects: sinks.captured,
	}, nil
}

// buildEvent turns a mutation spec into an engine event over the
// standard fixtures.
func buildEvent(mut MutationSpec) (engine.Event, error) {
	switch engine.MutationKind(mut.Kind) {
	case engine.MutationCard:
		before := testutil.Card(nil)
		after, err := applyCardChanges(before, mut.Changes)
		if err != nil {
			return engine.Event{}, err
		}
		return engine.Event{
			OwnerType:  schema.OwnerCircle,
			OwnerID:    before.CircleID,
			Kind:       engine.MutationCard,
			CallerID:   mut.Caller,
			CardBefore: before,
			CardAfter:  after,
			Project:    testutil.Project(nil),
		}, nil

	case engine.MutationCollectionData:
		coll := testutil.Collection(nil)
		before := coll.Data["rec-1"]
		after := make(schema.Record, len(before)+len(mut.Changes))
		for k, v := range before {
			after[k] = v
		}
		for k, v := range mut.Changes {
			after[k] = v
		}
		return engine.Event{
			OwnerType:    schema.OwnerCollection,
			OwnerID:      coll.ID,
			Kind:         engine.MutationCollectionData,
			CallerID:     mut.Caller,
			Collection:   coll,
			RecordID:     "rec-1",
			RecordBefore: before,
			RecordAfter:  after,
		}, nil
	}
	return engine.Event{}, fmt.Errorf("unknown mutation kind %q", mut.Kind)
}

// applyCardChanges merges the change map onto the card through its JSON
// shape, so scenarios use the same field names the API does.
func applyCardChanges(before *schema.Card, changes map[string]any) (*schema.Card, error) {
	doc, err := json.Marshal(before)
	if err != nil {
		return nil, err
	}
	var asMap map[string]any
	if err := json.Unmarshal(doc, &asMap); err != nil {
		return nil, err
	}
	for k, v := range changes {
		asMap[k] = v
	}
	merged, err := json.Marshal(asMap)
	if err != nil {
		return nil, err
	}
	var after schema.Card
	if err := json.Unmarshal(merged, &after); err != nil {
		return nil, fmt.Errorf("applying changes: %w", err)
	}
	return &after, nil
}
