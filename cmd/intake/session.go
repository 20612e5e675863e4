package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/peopleops/intake/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted wizard sessions",
	Long:  `List, inspect, and remove wizard sessions stored in the sessions directory.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store := file.NewStore(sessionPath(cmd))
		threads, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(threads) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		fmt.Println("Sessions:")
		for _, id := range threads {
			fmt.Println("- " + id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <thread-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		threadID := args[0]
		store := file.NewStore(sessionPath(cmd))

		sess, err := store.Load(cmd.Context(), threadID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", threadID, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling session: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <thread-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := file.NewStore(sessionPath(cmd))
		hasError := false

		for _, threadID := range args {
			if err := store.Delete(cmd.Context(), threadID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", threadID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", threadID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
