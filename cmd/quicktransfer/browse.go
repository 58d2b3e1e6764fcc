package main

import (
	"fmt"
	"os"
	"path/filepath"

	"quicktransfer/internal/log"
	"quicktransfer/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the server in a terminal file manager",
		Long: `Open the interactive file browser. Click or use the arrow keys to move,
double-click or enter to open, right-click or m for the context menu.
Paste file paths to upload them into the current folder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			logFile, err := openBrowseLog()
			if err != nil {
				return err
			}
			defer logFile.Close()
			log.SetOutput(logFile)
			defer log.SetOutput(os.Stdout)

			m := tui.NewFromConfig(cfg, client)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
			m.SetSender(p.Send)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running browser: %w", err)
			}
			return nil
		},
	}
	addClientFlags(cmd)
	return cmd
}

// openBrowseLog opens the log file used while the terminal is taken over.
func openBrowseLog() (*os.File, error) {
	dir := tui.CacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "browse.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
}
