package main

import (
	"context"
	"fmt"
	"os"

	"github.com/civicscribe/intake/internal/cli"
	"github.com/civicscribe/intake/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "civicscribe",
	Short: "CivicScribe collects public-benefits applications one question at a time",
	Long: `CivicScribe runs a guided interview for a public-benefits application and produces
a structured application document. Sessions can be driven from the terminal, over HTTP
or by an agent through MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./civicscribe.yaml or ~/.civicscribe/civicscribe.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("store", config.DriverFile, "Session store: memory, file or redis")
	flags.String("store-path", ".civicscribe/sessions", "Directory for the file store")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis store")
	flags.Duration("pacing", 0, "Pause between prompts, e.g. 300ms")

	for key, flag := range map[string]string{
		"log.level":        "log-level",
		"log.format":       "log-format",
		"store.driver":     "store",
		"store.path":       "store-path",
		"store.redis.addr": "redis-addr",
		"pacing":           "pacing",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// loadApp reads configuration and builds the application. Callers must Close it.
func loadApp(ctx context.Context) (*cli.App, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	app, err := cli.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("error initializing civicscribe: %w", err)
	}
	return app, nil
}
