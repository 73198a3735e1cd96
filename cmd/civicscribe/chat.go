package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/civicscribe/intake/internal/cli"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the application interview in the terminal",
	Long: `Starts an interview on standard input and output. Answers are saved after every turn,
so an interrupted session resumes with --session. Type 'exit' to pause.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")
		seedPath, _ := cmd.Flags().GetString("seed")

		var seed *domain.Application
		if seedPath != "" {
			data, err := os.ReadFile(seedPath)
			if err != nil {
				return fmt.Errorf("error reading seed: %w", err)
			}
			seed = &domain.Application{}
			if err := json.Unmarshal(data, seed); err != nil {
				return fmt.Errorf("error parsing seed: %w", err)
			}
		}

		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		_, err = cli.RunChat(cmd.Context(), app, cli.ChatOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			JSON:      jsonMode,
			Seed:      seed,
			In:        os.Stdin,
			Out:       os.Stdout,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "", "Session id to resume or create")
	chatCmd.Flags().Bool("fresh", false, "Discard saved answers for --session first")
	chatCmd.Flags().Bool("json", false, "Use JSON lines on stdin/stdout")
	chatCmd.Flags().String("seed", "", "JSON application draft to pre-populate a new session")
}
