package cli

import (
	"github.com/spf13/cobra"

	"github.com/boardmate/boardmate/internal/demodb"
	"github.com/boardmate/boardmate/internal/repository/local"
	"github.com/boardmate/boardmate/internal/seed"
	"github.com/boardmate/boardmate/internal/session"
)

// NewSeedCommand creates the seed command: insert the demo fixtures.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo fixture data",
		Long: `Insert the demo users and posts into the store.

Fixtures carry fixed IDs; running seed twice overwrites them in place.`,
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
			return seed.Run(cmd.Context(), repos.Users, repos.Posts, logger)
		},
	}

	return cmd
}
