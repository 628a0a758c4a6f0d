package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	chatbot "github.com/aarush-luthra/smart-customer-support-chatbot"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chatbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chatbot version %s\n", strings.TrimSpace(chatbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
