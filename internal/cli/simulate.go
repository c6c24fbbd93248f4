package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loomhq/loom/internal/action"
	"github.com/loomhq/loom/internal/engine"
	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/store"
	"github.com/loomhq/loom/internal/updates"
)

// Mutation is the YAML description of one simulated entity change.
type Mutation struct {
	Kind   string `yaml:"kind"` // "card" | "collectionData"
	Caller string `yaml:"caller"`

	// Card mutations.
	Card string `yaml:"card,omitempty"`

	// Collection-record mutations.
	Collection string `yaml:"collection,omitempty"`
	Record     string `yaml:"record,omitempty"`

	// Changes are applied field-by-field to the stored entity to form
	// the after state.
	Changes map[string]any `yaml:"changes"`
}

// SimulationResult is the output of one simulated pass.
type SimulationResult struct {
	Updates     *updates.Container `json:"updates"`
	SideEffects []string           `json:"sideEffects,omitempty"`
}

// NewSimulateCommand creates the simulate command: run one automation
// pass against stored entities without persisting anything. Side effects
// are captured and reported, not delivered.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "simulate <mutation.yaml>",
		Short: "Run one automation pass as a dry run",
		Long: `Simulate an entity mutation against the stored automations.

The mutation file names a stored entity and the field changes to apply.
The pass runs exactly as it would in production, except nothing is
written back and side effects (email, roles, chat) are captured instead
of delivered. The resulting update container is printed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "loom.db", "database path")

	return cmd
}

func runSimulate(opts *RootOptions, dbPath, mutationPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mut, err := loadMutation(mutationPath)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading mutation", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	ev, err := buildEvent(cmd.Context(), s, mut)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "building event", err)
	}

	sinks := &capturedSinks{}
	e := engine.New(s, s, sinks)

	container, err := e.RunAutomations(cmd.Context(), ev)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "pass failed", err)
	}

	result := SimulationResult{Updates: container, SideEffects: sinks.captured}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	if container.IsEmpty() && len(sinks.captured) == 0 {
		fmt.Fprintln(formatter.Writer, "no automations fired")
		return nil
	}
	encoded, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(formatter.Writer, string(encoded))
	for _, effect := range sinks.captured {
		fmt.Fprintf(formatter.Writer, "side effect: %s\n", effect)
	}
	return nil
}

// loadMutation parses the mutation YAML with strict field checking, so
// a typoed key fails loudly instead of silently simulating nothing.
func loadMutation(path string) (*Mutation, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	var mut Mutation
	if err := dec.Decode(&mut); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &mut, nil
}

// buildEvent loads the mutated entity's snapshots from the store and
// applies the declared changes to form the after state.
func buildEvent(ctx context.Context, s *store.Store, mut *Mutation) (engine.Event, error) {
	switch engine.MutationKind(mut.Kind) {
	case engine.MutationCard:
		before, err := s.GetCardByID(ctx, mut.Card)
		if err != nil {
			return engine.Event{}, err
		}
		after, err := applyCardChanges(before, mut.Changes)
		if err != nil {
			return engine.Event{}, err
		}
		project, err := s.GetProjectByID(ctx, before.ProjectID)
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
			Project:    project,
		}, nil

	case engine.MutationCollectionData:
		coll, err := s.GetCollectionBySlug(ctx, mut.Collection)
		if err != nil {
			return engine.Event{}, err
		}
		before, ok := coll.Data[mut.Record]
		if !ok {
			return engine.Event{}, fmt.Errorf("record %s not found in collection %s", mut.Record, mut.Collection)
		}
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
			RecordID:     mut.Record,
			RecordBefore: before,
			RecordAfter:  after,
		}, nil
	}
	return engine.Event{}, fmt.Errorf("unknown mutation kind %q", mut.Kind)
}

// applyCardChanges merges the change map onto the card through its JSON
// shape, so the YAML uses the same field names the API does.
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

// capturedSinks records side effects instead of delivering them.
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
