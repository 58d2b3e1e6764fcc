package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"quicktransfer/internal/daemon"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"
	"quicktransfer/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var background bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storage folder over HTTP",
		Long: `Serve the storage folder over HTTP until interrupted.
With --background the server is started as a separate process that writes
its PID and log files; stop it with 'quicktransfer stop'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyServeFlags(cmd); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if background {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("error getting executable path: %w", err)
				}
				pid, err := daemon.NewControl(cfg).Start(exe, backgroundArgs()...)
				if err != nil {
					return err
				}
				PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Server started in the background (PID %d)", pid))
				PrintInfo(cmd.OutOrStdout(), "Logging to "+cfg.Server.LogFile)
				return nil
			}

			log.SetDebug(cfg.Server.Debug)
			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("host", "", "interface to listen on (default 0.0.0.0)")
	flags.IntP("port", "p", 0, "port to listen on (default 8080)")
	flags.StringP("dir", "d", "", "storage folder, files are served from <dir>/files")
	flags.String("password", "", "require this password to log in")
	flags.Bool("debug", false, "log every request")
	flags.BoolVarP(&background, "background", "b", false, "run in the background")

	return cmd
}

// applyServeFlags copies explicitly set flags onto the server section.
func applyServeFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("dir") {
		dir, _ := flags.GetString("dir")
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errors.NewFileError("invalid storage folder", dir, errors.InvalidPath, err)
		}
		cfg.Server.Directory = abs
	}
	if flags.Changed("password") {
		cfg.Server.Password, _ = flags.GetString("password")
	}
	if flags.Changed("debug") {
		cfg.Server.Debug, _ = flags.GetBool("debug")
	}
	return nil
}

// backgroundArgs rebuilds the serve command line for the detached process
// from the effective configuration.
func backgroundArgs() []string {
	args := []string{
		"serve",
		"--host", cfg.Server.Host,
		"--port", strconv.Itoa(cfg.Server.Port),
		"--dir", cfg.Server.Directory,
	}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	if cfg.Server.Password != "" {
		args = append(args, "--password", cfg.Server.Password)
	}
	if cfg.Server.Debug {
		args = append(args, "--debug")
	}
	return args
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := daemon.NewControl(cfg).Stop()
			switch {
			case errors.Is(err, daemon.ErrNotRunning):
				PrintWarning(cmd.OutOrStdout(), "Server is not running")
				return nil
			case errors.Is(err, daemon.ErrStalePID):
				PrintWarning(cmd.OutOrStdout(), fmt.Sprintf("No process with PID %d, removed the stale PID file", pid))
				return nil
			case err != nil:
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Stopped server (PID %d)", pid))
			return nil
		},
	}
}
