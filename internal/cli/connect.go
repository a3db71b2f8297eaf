package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/cli/render"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// NewConnectCmd creates the connect command
func NewConnectCmd() *cobra.Command {
	var noLaunch bool

	cmd := &cobra.Command{
		Use:   "connect [network]",
		Short: "Connect to a network",
		Long: `Connect to a network declared in netctl.toml, or to an RPC URL.

Without a network argument the default network is used; with no default and an
interactive terminal you are asked to pick one.

Networks with a test_node section expect a local node. If nothing answers at the
network's host a node is launched and owned by netctl; a node that is already
running is attached to, provided it is still at block 0.`,
		Example: `  netctl connect development
  netctl connect mainnet
  netctl connect http://127.0.0.1:8545
  netctl connect development --no-launch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network := ""
			if len(args) == 1 {
				network = args[0]
			}

			if network == "" && app.Networks.DefaultNetwork() == "" && !app.Config.NonInteractive {
				selected, err := app.Selector.SelectNetwork(cmd.Context(), app.Networks.List(cmd.Context()), "Select network")
				if err != nil {
					return err
				}
				network = selected.Name
			}

			result, err := app.Session.Connect(cmd.Context(), usecase.ConnectParams{
				Network:    network,
				LaunchNode: !noLaunch,
			})
			if err != nil {
				return err
			}

			return render.NewSessionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderConnect(result)
		},
	}

	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "Do not launch or attach to a local node")
	cmd.Flags().Duration("launch-timeout", 0, "How long a launched node has to become ready (default 10s)")

	return cmd
}
