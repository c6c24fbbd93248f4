package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/store"
)

// ListedAutomation is one row of list output.
type ListedAutomation struct {
	Position int                `json:"position"`
	ID       string             `json:"id"`
	Name     string             `json:"name,omitempty"`
	Trigger  schema.TriggerKind `json:"trigger"`
	Actions  int                `json:"actions"`
	Active   bool               `json:"active"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "list <owner-id>",
		Short: "List an owner's automations in evaluation order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "loom.db", "database path")

	return cmd
}

func runList(opts *RootOptions, dbPath, ownerID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	automations, err := s.GetAutomationsForOwner(cmd.Context(), ownerID)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading automations", err)
	}

	rows := make([]ListedAutomation, len(automations))
	for i, a := range automations {
		rows[i] = ListedAutomation{
			Position: i,
			ID:       a.ID,
			Name:     a.Name,
			Trigger:  a.Trigger.Kind,
			Actions:  len(a.Actions),
			Active:   a.Active,
		}
	}

	if opts.Format == "json" {
		return formatter.Success(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintf(formatter.Writer, "no automations for %s\n", ownerID)
		return nil
	}
	for _, r := range rows {
		state := "active"
		if !r.Active {
			state = "inactive"
		}
		fmt.Fprintf(formatter.Writer, "%3d  %-24s  %-18s  %d action(s)  [%s]\n",
			r.Position, r.ID, r.Trigger, r.Actions, state)
	}
	return nil
}
