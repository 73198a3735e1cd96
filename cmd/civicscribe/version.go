package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of civicscribe",
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(intake.Version))
			return
		}
		fmt.Printf("civicscribe version %s\n", strings.TrimSpace(intake.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
