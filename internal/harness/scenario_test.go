package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/close_card_when_done.yaml")
	require.NoError(t, err)

	assert.Equal(t, "close-card-when-done", s.Name)
	assert.Equal(t, "pass-close", s.PassID)
	assert.Equal(t, "card", s.Mutation.Kind)
	assert.Equal(t, "done", s.Mutation.Changes["columnId"])
	// Rules path resolved relative to the scenario file.
	assert.Equal(t, filepath.Join("testdata", "scenarios", "..", "rules", "close_finished.cue"), s.Rules)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: has a typoed key
rules: nope.cue
mutaton:
  kind: card
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestLoadScenario_Validation(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "rules.cue")
	require.NoError(t, os.WriteFile(rules, []byte(`automations: []`), 0o644))

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			"missing name",
			"description: d\nrules: " + rules + "\nmutation: {kind: card, caller: u, changes: {a: 1}}\n",
			"name is required",
		},
		{
			"missing rules file",
			"name: n\ndescription: d\nrules: /does/not/exist.cue\nmutation: {kind: card, caller: u, changes: {a: 1}}\n",
			"rules file not found",
		},
		{
			"bad mutation kind",
			"name: n\ndescription: d\nrules: " + rules + "\nmutation: {kind: retro, caller: u, changes: {a: 1}}\n",
			"mutation.kind",
		},
		{
			"empty changes",
			"name: n\ndescription: d\nrules: " + rules + "\nmutation: {kind: card, caller: u, changes: {}}\n",
			"mutation.changes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
