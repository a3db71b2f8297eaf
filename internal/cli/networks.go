package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List networks configured in netctl.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			active, _ := app.Session.ShowActive()
			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.RenderNetworksList(app.Networks.List(cmd.Context()), app.Networks.DefaultNetwork(), active)
		},
	}
}
