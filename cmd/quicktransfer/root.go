package main

import (
	"fmt"

	"quicktransfer/internal/api"
	"quicktransfer/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfgFile = ""
	cfg = nil

	rootCmd := &cobra.Command{
		Use:     "quicktransfer",
		Short:   "Share a folder over HTTP and browse it from the terminal",
		Long:    `QuickTransfer serves a storage folder over a small HTTP API and browses, uploads and downloads its files.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Warning: %v", err))
				PrintInfo(cmd.ErrOrStderr(), "Using default settings.")
				cfg = config.New()
			}
		},
		SilenceUsage: true,
	}

	helpTemplate := DrawLogo() + "\n\n" + rootCmd.UsageTemplate()
	rootCmd.SetUsageTemplate(helpTemplate)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/quicktransfer/config.yaml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newDropCmd())

	return rootCmd
}

// addClientFlags adds the flags that point a command at a server.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "server URL (default from config)")
	cmd.Flags().String("password", "", "server password (default from config)")
}

// applyClientFlags copies --url and --password onto the client section.
func applyClientFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("url") {
		cfg.Client.URL, _ = cmd.Flags().GetString("url")
	}
	if cmd.Flags().Changed("password") {
		cfg.Client.Password, _ = cmd.Flags().GetString("password")
	}
}

func newClient(cmd *cobra.Command) (*api.Client, error) {
	applyClientFlags(cmd)
	return api.NewClientFromConfig(cfg)
}
