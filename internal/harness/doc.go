// Package harness runs scenario-driven conformance tests against the
// automation engine.
//
// A scenario is a YAML file naming a CUE rules file, a mutation to apply
// to the standard fixture entities, and a fixed pass id. The harness
// compiles the rules, builds the mutation event, runs one pass with
// captured side-effect sinks, and returns the resulting update container
// for assertion or golden comparison.
//
// Golden files live in testdata/golden and are regenerated with
// go test ./internal/harness -update.
package harness
