package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boardmate/boardmate/internal/demodb"
	"github.com/boardmate/boardmate/internal/repository/local"
	"github.com/boardmate/boardmate/internal/session"
)

// NewResetCommand creates the reset command: wipe all demo data.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all stores and the session slot",
		Long: `Delete every user, post and comment and clear the persisted
session. The store stays at the current schema version and remains usable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(rootOpts)
			if err != nil {
				return err
			}

			db, err := demodb.NewOpener(cfg.DBPath, logger).Open()
			if err != nil {
				return err
			}
			defer db.Close()

			repos := local.New(db, session.NewStore(cfg.SessionPath), logger)
			if err := repos.ResetAll(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Demo data reset.")
			return nil
		},
	}

	return cmd
}
