package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/cli/commands"
	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/logger"
)

var version = "dev" // Will be set during build

// offline marks commands that run without a session
const offline = "offline"

// NewRootCmd builds the command tree around rt
func NewRootCmd(rt *commands.Runtime) *cobra.Command {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "alumnet",
		Short: "AlumNet - the alumni network from your terminal",
		Long: `AlumNet CLI - Sign in, keep your alumni profile up to date, and find
classmates in the directory and on the map.

The session cookie is kept in your OS keychain between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[offline] == "true" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			if rt.Config == nil {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				rt.Config = cfg
			}
			if apiURL != "" {
				rt.Config.API.URL = apiURL
				if err := rt.Config.Validate(); err != nil {
					return err
				}
			}

			logger.Init(rt.Config.Logging.Level, rt.Config.Logging.Format)
			rt.Logger = logger.GetLogger()

			return rt.Open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (or set ALUMNET_API_URL)")

	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: map[string]string{offline: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "alumnet version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(rt))
	rootCmd.AddCommand(commands.NewLogoutCmd(rt))
	rootCmd.AddCommand(commands.NewWhoamiCmd(rt))
	rootCmd.AddCommand(commands.NewRegisterCmd(rt))
	rootCmd.AddCommand(commands.NewProfileCmd(rt))
	rootCmd.AddCommand(commands.NewForgotPasswordCmd(rt))
	rootCmd.AddCommand(commands.NewDirectoryCmd(rt))
	rootCmd.AddCommand(commands.NewMapCmd(rt))
	rootCmd.AddCommand(commands.NewDashboardCmd(rt))
	rootCmd.AddCommand(commands.NewAdminCmd(rt))
	rootCmd.AddCommand(commands.NewShellCmd(rt))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rt := &commands.Runtime{Out: os.Stdout}
	if err := NewRootCmd(rt).Execute(); err != nil {
		// The session is still saved when a command fails
		_ = rt.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
