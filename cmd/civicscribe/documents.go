package main

import (
	"os"

	"github.com/civicscribe/intake/internal/cli"
	"github.com/civicscribe/intake/pkg/export"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the step graph as Mermaid",
	Long:  `Outputs a Mermaid diagram (graph TD) of every step. With --session the visited path is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.PrintGraph(cmd.Context(), app, sessionID, os.Stdout)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <session-id>",
	Short: "Print the narrative summary of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.PrintSummary(cmd.Context(), app, args[0], os.Stdout)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the structured application document of a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ExportDocument(cmd.Context(), app, sessionID, format, os.Stdout)
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ListSessions(cmd.Context(), app, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd, summaryCmd, exportCmd, sessionsCmd)

	graphCmd.Flags().StringP("session", "s", "", "Highlight this session's path")
	exportCmd.Flags().StringP("session", "s", "", "Session id to export")
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	_ = exportCmd.MarkFlagRequired("session")
}
