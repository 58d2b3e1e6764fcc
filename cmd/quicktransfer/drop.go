package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/watch"

	"github.com/spf13/cobra"
)

func newDropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop [dir]",
		Short: "Upload every file that appears in a local folder",
		Long: `Watch a local folder and upload each file dropped into it. Sent files
are moved into its .sent subfolder. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Drop.Directory
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				return errors.NewPrecondition("no drop folder given and none configured")
			}
			if cmd.Flags().Changed("to") {
				cfg.Drop.Target, _ = cmd.Flags().GetString("to")
			}
			target := strings.Trim(cfg.Drop.Target, "/")

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dropper, err := watch.NewDropper(dir, target, client, watch.WithCallback(func(r watch.Result) {
				if r.Err != nil {
					PrintError(out, fmt.Sprintf("%s: %v", filepath.Base(r.Path), r.Err))
					return
				}
				saved := make([]string, len(r.Saved))
				for i, name := range r.Saved {
					saved[i] = "/" + api.JoinPath(target, name)
				}
				PrintSuccess(out, filepath.Base(r.Path)+" → "+strings.Join(saved, ", "))
			}))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := dropper.Start(ctx); err != nil {
				return err
			}
			PrintInfo(out, fmt.Sprintf("Watching %s, uploading to /%s (ctrl+c to stop)", dir, target))

			<-ctx.Done()
			dropper.Stop()

			status := dropper.Status()
			PrintInfo(out, fmt.Sprintf("%d uploaded, %d failed", status.Uploaded, status.Failed))
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().String("to", "", "remote folder to upload into (default from config)")
	return cmd
}
