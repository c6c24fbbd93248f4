package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Rules  int                        `json:"rules"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules-path>",
		Short: "Validate automation rules without storing them",
		Long: `Validate CUE automation rules without writing to a database.

Performs syntax checking, kind checking, and payload validation.
Faster than compile for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, err := LoadRules(path)
	if err != nil {
		if loadErr, ok := err.(*LoadError); ok {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	formatter.VerboseLog("Compiled %d rule(s) from %d file(s)", len(result.Automations), result.FileCount)

	var validationErrors []compiler.ValidationError
	for i := range result.Automations {
		validationErrors = append(validationErrors, compiler.Validate(&result.Automations[i])...)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, len(result.Automations), validationErrors)
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Rules: len(result.Automations)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d rule(s) valid\n", len(result.Automations))
	return nil
}

// outputValidationErrors outputs validation errors and fails the command.
func outputValidationErrors(formatter *OutputFormatter, rules int, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(errs[0].Code, errs[0].Message, ValidationResult{
			Valid:  false,
			Rules:  rules,
			Errors: errs,
		})
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
