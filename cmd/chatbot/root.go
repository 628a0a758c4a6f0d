package main

import (
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "Deterministic customer support chatbot",
	Long: `A keyword-driven customer support chatbot: prefix-trie auto-complete,
synonym canonicalization, a dialogue state machine with navigation history,
and weighted next-action suggestions, served over a JSON HTTP API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a bot definition YAML (default: embedded stock flow)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return logging.New(l)
}
