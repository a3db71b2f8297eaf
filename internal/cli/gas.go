package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/cli/render"
)

// NewGasCmd creates the gas command
func NewGasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gas [limit]",
		Short: "Show or set the gas limit of the active network",
		Long: `Show or set the gas limit of the active network.

The limit is an integer of at least 21000 (underscores allowed), or one of
auto, automatic, none, true or false to let the node estimate gas.`,
		Example: `  netctl gas
  netctl gas 6_721_975
  netctl gas auto`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var message string
			if len(args) == 0 {
				message, err = app.Session.GasLimit()
			} else {
				message, err = app.Session.SetGasLimit(cmd.Context(), &args[0])
			}
			if err != nil {
				return err
			}

			return render.NewSessionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderGas(message, app.Session.CurrentGasLimit())
		},
	}
}
