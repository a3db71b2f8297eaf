package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/netctl/internal/adapters/progress"
	"github.com/trebuchet-org/netctl/internal/app"
	"github.com/trebuchet-org/netctl/internal/cli/render"
	"github.com/trebuchet-org/netctl/internal/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// releaseKey holds the hooks Execute runs once the command returns
	releaseKey contextKey = "release"
)

// Execute runs the command tree. Signal and timeout hooks installed for the
// invocation are released whether or not the command fails.
func Execute(rootCmd *cobra.Command) error {
	var hooks []func()
	defer func() {
		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
	}()
	ctx := context.WithValue(context.Background(), releaseKey, &hooks)
	return rootCmd.ExecuteContext(ctx)
}

// onRelease registers fn to run when Execute returns
func onRelease(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(releaseKey).(*[]func()); ok {
		*hooks = append(*hooks, fn)
		return
	}
	// Executed without Execute; release once the context is done
	context.AfterFunc(ctx, fn)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netctl",
		Short: "Connect to blockchain networks and manage a local dev node",
		Long: `netctl manages the connection to a blockchain network. Networks are declared in
netctl.toml; networks with a [networks.<name>.test_node] section get a local node
(anvil) launched on connect, or attached to if one is already running.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("json") && !v.GetBool("non_interactive") {
				sink = progress.NewSpinnerProgressReporter()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			onRelease(ctx, stop)
			if appInstance.Config.Timeout > 0 {
				var cancelTimeout context.CancelFunc
				ctx, cancelTimeout = context.WithTimeout(ctx, appInstance.Config.Timeout)
				onRelease(ctx, cancelTimeout)
			}

			if err := appInstance.Session.Restore(ctx); err != nil {
				appInstance.Log.Debug("session not restored", "error", err)
				fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning(fmt.Sprintf("Ignoring saved session: %v", err)))
			}

			cmd.SetContext(context.WithValue(ctx, appKey, appInstance))
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (default 5m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewConnectCmd(),
		NewDisconnectCmd(),
		NewActiveCmd(),
		NewGasCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewStatusCmd(),
		NewNetworksCmd(),
		NewNodeCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without a project
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
