package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/cli/render"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Inspect the local node",
	}

	cmd.AddCommand(newNodeLogsCmd())

	return cmd
}

func newNodeLogsCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log of the local node launched by netctl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			handle := app.Node.Handle()
			if handle == nil || !handle.IsOwned() {
				return fmt.Errorf("no local node launched by netctl is running")
			}

			render.NewSessionRenderer(cmd.OutOrStdout(), false).RenderLogsHeader(handle, follow)
			return app.Node.StreamLogs(cmd.Context(), cmd.OutOrStdout(), follow)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log lines")

	return cmd
}
