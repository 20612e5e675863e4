package main

import (
	"fmt"
	"os"

	"github.com/peopleops/intake/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check wizard configs for consistency",
	Long: `Loads every wizard config in the configs directory and reports structural
problems: duplicate step IDs, duplicate sort orders, elements referencing
missing steps, or question elements without a semantic tag.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("configs")
		if !cmd.Flags().Changed("configs") && len(args) > 0 {
			dir = args[0]
		}

		registry, err := file.NewRegistry(dir)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		ids, err := registry.List(cmd.Context())
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("All configs valid (%d wizard(s)):\n", len(ids))
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
