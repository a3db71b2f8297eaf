package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/cli/render"
)

// NewActiveCmd creates the active command
func NewActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			name, ok := app.Session.ShowActive()
			return render.NewSessionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderActive(name, ok)
		},
	}
}
