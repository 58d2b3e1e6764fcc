package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"quicktransfer/internal/api"
	"quicktransfer/internal/filetype"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a folder on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			dir := ""
			if len(args) > 0 {
				dir = strings.Trim(args[0], "/")
			}

			listing, err := client.List(cmd.Context(), dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			PrintHeader(out, "/"+listing.Path)
			if len(listing.Items) == 0 {
				PrintInfo(out, "empty folder")
				return nil
			}
			for _, e := range listing.Items {
				fmt.Fprintln(out, formatEntry(e))
			}
			return nil
		},
	}
	addClientFlags(cmd)
	return cmd
}

// formatEntry renders one listing line: glyph, type, size, age and name.
func formatEntry(e api.Entry) string {
	size := "-"
	if e.Size != nil {
		size = humanize.Bytes(uint64(*e.Size))
	}
	name := e.Name
	if e.IsDir() {
		name += "/"
	}
	modified := humanize.Time(time.Unix(int64(e.Modified), 0))
	return fmt.Sprintf("%s %-8s %9s  %-14s %s", filetype.Glyph(e.Type), e.Type, size, modified, name)
}

func newUploadCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "upload <files...>",
		Short: "Upload local files in one request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			files, closeFiles, err := api.OpenLocalFiles(args)
			if err != nil {
				return err
			}
			defer closeFiles()

			var total int64
			for _, p := range args {
				if info, err := os.Stat(p); err == nil {
					total += info.Size()
				}
			}
			bar := newBar(total, "uploading", cmd.ErrOrStderr())
			for i := range files {
				files[i].Body = io.TeeReader(files[i].Body, bar)
			}

			result, err := client.Upload(cmd.Context(), strings.Trim(to, "/"), files)
			bar.Finish()
			if err != nil {
				return err
			}
			for _, name := range result.Saved {
				PrintSuccess(cmd.OutOrStdout(), "Saved "+api.JoinPath(strings.Trim(to, "/"), name))
			}
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().StringVar(&to, "to", "", "remote folder to upload into (default is the root)")
	return cmd
}

func newGetCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "get <paths...>",
		Short: "Download files from the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Client.DownloadDir
			}

			for _, p := range args {
				p = strings.Trim(p, "/")
				name := path.Base(p)
				bar := newBar(-1, name, cmd.ErrOrStderr())
				target, err := client.DownloadTo(cmd.Context(), client.FileURL(p), name, outDir, bar)
				bar.Finish()
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				PrintSuccess(cmd.OutOrStdout(), "Saved "+target)
			}
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "folder to save into (default from config)")
	return cmd
}

func newRmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <paths...>",
		Short: "Move files on the server to its trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			if !yes {
				prompt := fmt.Sprintf("Delete %d item(s)? [y/N] ", len(args))
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
					PrintWarning(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
			}

			for i, p := range args {
				p = strings.Trim(p, "/")
				if _, err := client.Delete(cmd.Context(), p); err != nil {
					return fmt.Errorf("deleted %d of %d, %s: %w", i, len(args), p, err)
				}
				PrintSuccess(cmd.OutOrStdout(), "Deleted "+p)
			}
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on the terminal. Anything but y or yes
// declines.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// newBar creates a byte progress bar; total -1 shows a spinner.
func newBar(total int64, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
		progressbar.OptionSpinnerType(14),
	)
}
