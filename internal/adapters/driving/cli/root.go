// Package cli wires the application commands.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "drivebrief",
	Short: "Summarize the documents of a Google Drive folder",
	Long: `drivebrief connects a Google Drive folder to a language model.

It authorizes against Google via OAuth2, lists the PDF, DOCX and TXT files
of a folder, extracts their text, and produces a short summary per file
through the OpenAI API. The flows are exposed over HTTP.

Examples:
  # Start the HTTP server
  drivebrief serve

  # Start with an explicit config file
  drivebrief serve --config /etc/drivebrief/config.yaml`,
}

// configPath is shared by commands that load configuration.
var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "", "Path to config file (YAML)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
