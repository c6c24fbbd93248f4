package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance test: a rules file, a mutation over
// the standard fixtures, and a fixed pass id for determinism.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is the path to the CUE rules file, relative to the scenario
	// file location.
	Rules string `yaml:"rules"`

	// PassID is the fixed pass id for deterministic output.
	// Defaults to "pass-scenario" when empty.
	PassID string `yaml:"pass_id,omitempty"`

	// Mutation describes the entity change that starts the pass.
	Mutation MutationSpec `yaml:"mutation"`
}

// MutationSpec is the scenario's entity change. Card mutations apply to
// the standard card-1 fixture; collection mutations to rec-1 of the
// grants fixture.
type MutationSpec struct {
	// Kind is "card" or "collectionData".
	Kind string `yaml:"kind"`

	// Caller is the user id whose change starts the pass.
	Caller string `yaml:"caller"`

	// Changes are applied field-by-field to form the after state. Keys
	// use the entities' JSON field names.
	Changes map[string]any `yaml:"changes"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly, and the rules path is resolved relative
// to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if !filepath.IsAbs(scenario.Rules) && scenario.Rules != "" {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}
	if scenario.PassID == "" {
		scenario.PassID = "pass-scenario"
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Rules == "" {
		return fmt.Errorf("rules path is required")
	}
	if _, err := os.Stat(s.Rules); os.IsNotExist(err) {
		return fmt.Errorf("rules file not found: %s", s.Rules)
	}
	if s.Mutation.Kind != "card" && s.Mutation.Kind != "collectionData" {
		return fmt.Errorf("mutation.kind must be \"card\" or \"collectionData\", got %q", s.Mutation.Kind)
	}
	if s.Mutation.Caller == "" {
		return fmt.Errorf("mutation.caller is required")
	}
	if len(s.Mutation.Changes) == 0 {
		return fmt.Errorf("mutation.changes is required and must be non-empty")
	}
	return nil
}
