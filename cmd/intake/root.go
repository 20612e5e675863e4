package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake is a step-sequencing engine for conversational wizards",
	Long: `Intake drives users through configurable multi-step flows (leave requests,
onboarding, equipment orders) where a language model decides which
conditional steps apply. Wizard definitions are YAML files; progress is
persisted per conversation thread.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("configs", "./configs", "Directory containing wizard config YAML files")
	rootCmd.PersistentFlags().String("sessions", "", "Session storage directory (default .intake/sessions)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
