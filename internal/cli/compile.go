package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/store"
)

// CompileResult summarizes a compile-and-store run.
type CompileResult struct {
	Rules  int    `json:"rules"`
	Owner  string `json:"owner"`
	DBPath string `json:"dbPath"`
}

// NewCompileCommand creates the compile command: compile rules from CUE
// and store them under an owner, positions following authoring order.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath    string
		ownerID   string
		ownerType string
	)

	cmd := &cobra.Command{
		Use:   "compile <rules-path>",
		Short: "Compile automation rules and store them for an owner",
		Long: `Compile CUE automation rules and write them to the database.

Rules are stored in authoring order; the engine evaluates them in that
order on every pass. Re-compiling upserts by rule id, so editing a file
and re-running compile is the normal update flow.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, args[0], dbPath, ownerType, ownerID, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "loom.db", "database path")
	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id the rules belong to (required)")
	cmd.Flags().StringVar(&ownerType, "owner-type", string(schema.OwnerCircle), "owner type (circle|collection)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runCompile(opts *RootOptions, path, dbPath, ownerType, ownerID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ot := schema.OwnerType(ownerType)
	if ot != schema.OwnerCircle && ot != schema.OwnerCollection {
		msg := fmt.Sprintf("invalid owner type %q: must be circle or collection", ownerType)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	result, err := LoadRules(path)
	if err != nil {
		if loadErr, ok := err.(*LoadError); ok {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		return err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	for position, a := range result.Automations {
		if err := s.PutAutomation(ctx, ot, ownerID, position, a); err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "storing automation", err)
		}
		formatter.VerboseLog("stored %s at position %d", a.ID, position)
	}

	if opts.Format == "json" {
		return formatter.Success(CompileResult{Rules: len(result.Automations), Owner: ownerID, DBPath: dbPath})
	}
	fmt.Fprintf(formatter.Writer, "✓ Stored %d rule(s) for %s\n", len(result.Automations), ownerID)
	return nil
}
