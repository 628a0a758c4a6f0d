package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/config"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/dialogue"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the bot definition for consistency",
	Long: `Loads the bot definition and validates the dialogue graph, reporting
dangling transition targets and nodes unreachable from the root.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	graph, err := dialogue.New(cfg.Root, cfg.Nodes)
	if err != nil {
		return err
	}

	fmt.Printf("Dialogue graph: %d nodes, root %q\n", graph.Len(), graph.RootID())
	fmt.Printf("Vocabulary: %d phrases, FAQ: %d entries, synonym groups: %d\n",
		len(cfg.Vocabulary), len(cfg.FAQ), len(cfg.Synonyms))

	warnings := 0
	for _, d := range graph.Dangling() {
		fmt.Printf("warning: dangling transition %s\n", d)
		warnings++
	}
	for _, id := range graph.Unreachable() {
		fmt.Printf("warning: node %q unreachable from root\n", id)
		warnings++
	}

	if warnings > 0 {
		fmt.Printf("Definition is usable with %d warning(s).\n", warnings)
	} else {
		fmt.Println("Definition is valid.")
	}
	return nil
}
