package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
)

const logo = `
  ___       _    _   _____                     __
 / _ \ _  _(_)__| |_|_   _| _ __ _ _ _  ___ / _|___ _ _
| (_) | || | / _| / / | || '_/ _' | ' \(_-<|  _/ -_) '_|
 \__\_\\_,_|_\__|_\_\ |_||_| \__,_|_||_/__/|_| \___|_|
`

// DrawLogo returns the banner shown above the help text.
func DrawLogo() string {
	return headerStyle.Render(logo)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render("! "+message))
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintln(w, infoStyle.Render("ℹ "+message))
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, message string) {
	fmt.Fprintln(w, headerStyle.Render(message))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(message)))
}
