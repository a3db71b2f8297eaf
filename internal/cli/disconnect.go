package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/cli/render"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// NewDisconnectCmd creates the disconnect command
func NewDisconnectCmd() *cobra.Command {
	var keepNode bool

	cmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect from the active network",
		Long: `Disconnect from the active network.

A local node launched by netctl is stopped; a node that was attached to is
reverted to the state it had when netctl attached. Use --keep-node to leave the
local node untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Session.Disconnect(cmd.Context(), usecase.DisconnectParams{
				KillNode: !keepNode,
			})
			if result != nil {
				if rerr := render.NewSessionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderDisconnect(result); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&keepNode, "keep-node", false, "Leave the local node running and unchanged")

	return cmd
}
