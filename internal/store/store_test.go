package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/action"
	"github.com/loomhq/loom/internal/engine"
	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/store"
	"github.com/loomhq/loom/internal/testutil"
)

// The store is the production implementation of both engine
// collaborator interfaces.
var (
	_ engine.AutomationSource = (*store.Store)(nil)
	_ action.Resolver         = (*store.Store)(nil)
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "loom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.db")

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestAutomations_ReadBackInPositionOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	// Inserted out of order on purpose; position decides.
	for _, row := range []struct {
		pos int
		id  string
	}{
		{2, "auto-c"},
		{0, "auto-a"},
		{1, "auto-b"},
	} {
		a := schema.Automation{
			ID:      row.id,
			Trigger: schema.Trigger{Kind: schema.TriggerColumnChange},
			Actions: []schema.Action{{Kind: schema.ActionCloseCard}},
			Active:  true,
		}
		require.NoError(t, s.PutAutomation(ctx, schema.OwnerCircle, "circle-1", row.pos, a))
	}

	got, err := s.GetAutomationsForOwner(ctx, "circle-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "auto-a", got[0].ID)
	assert.Equal(t, "auto-b", got[1].ID)
	assert.Equal(t, "auto-c", got[2].ID)
}

func TestAutomations_UnknownOwnerIsEmptyNotNil(t *testing.T) {
	s := openStore(t)

	got, err := s.GetAutomationsForOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAutomations_UpsertReplacesInPlace(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	a := schema.Automation{
		ID:      "auto-1",
		Name:    "v1",
		Trigger: schema.Trigger{Kind: schema.TriggerStatusChange},
		Active:  true,
	}
	require.NoError(t, s.PutAutomation(ctx, schema.OwnerCircle, "circle-1", 0, a))

	a.Name = "v2"
	a.Active = false
	require.NoError(t, s.PutAutomation(ctx, schema.OwnerCircle, "circle-1", 0, a))

	got, err := s.GetAutomationsForOwner(ctx, "circle-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Name)
	assert.False(t, got[0].Active)
}

func TestAutomations_Delete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	a := schema.Automation{ID: "auto-1", Trigger: schema.Trigger{Kind: schema.TriggerStatusChange}, Active: true}
	require.NoError(t, s.PutAutomation(ctx, schema.OwnerCircle, "circle-1", 0, a))
	require.NoError(t, s.DeleteAutomation(ctx, "auto-1"))
	require.NoError(t, s.DeleteAutomation(ctx, "auto-1"))

	got, err := s.GetAutomationsForOwner(ctx, "circle-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocuments_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	card := testutil.Card(nil)
	require.NoError(t, s.PutCard(ctx, card))
	gotCard, err := s.GetCardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card, gotCard)

	project := testutil.Project(nil)
	require.NoError(t, s.PutProject(ctx, project))
	gotProject, err := s.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project, gotProject)

	circle := testutil.Circle(nil)
	require.NoError(t, s.PutCircle(ctx, circle))
	gotCircle, err := s.GetCircleByID(ctx, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, circle, gotCircle)

	user := &schema.User{ID: "user-1", Username: "ada", Email: "ada@example.com"}
	require.NoError(t, s.PutUser(ctx, user))
	gotUser, err := s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user, gotUser)
}

func TestCollections_LookupBySlug(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	coll := testutil.Collection(nil)
	require.NoError(t, s.PutCollection(ctx, coll))

	got, err := s.GetCollectionBySlug(ctx, "grants")
	require.NoError(t, err)
	assert.Equal(t, coll.ID, got.ID)
	assert.Equal(t, coll.Properties, got.Properties)

	_, err = s.GetCollectionBySlug(ctx, "missing")
	assert.Error(t, err)
}

func TestDocuments_MissingID(t *testing.T) {
	s := openStore(t)

	_, err := s.GetCardByID(context.Background(), "ghost")
	assert.Error(t, err)
}
