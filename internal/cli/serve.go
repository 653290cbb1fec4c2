package cli

import (
	"github.com/spf13/cobra"

	"github.com/boardmate/boardmate/internal/server"
)

// NewServeCommand creates the serve command: run the HTTP server until
// interrupted.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the board server",
		Long: `Start the HTTP server backed by the embedded store.

Pending schema migrations run before the first request is served.

Example:
  boardmate serve
  boardmate serve --port 9090 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(rootOpts)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}

			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	return cmd
}
