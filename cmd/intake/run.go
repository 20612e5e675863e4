package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/peopleops/intake"
	"github.com/peopleops/intake/internal/tui"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run <wizard-id>",
	Short: "Run a wizard interactively in the terminal",
	Long:  `Starts (or resumes) a wizard session on the terminal, prompting for each step until the flow completes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := createLogger(cmd)
		wizardID := args[0]
		threadID, _ := cmd.Flags().GetString("thread")
		employeeID, _ := cmd.Flags().GetString("employee")
		if threadID == "" {
			threadID = "cli-" + uuid.NewString()
		}

		engine, err := buildEngine(cmd, logger)
		if err != nil {
			fmt.Printf("Error initializing intake: %v\n", err)
			os.Exit(1)
		}

		if err := runInteractive(cmd.Context(), engine, threadID, wizardID, employeeID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("thread", "", "Thread ID to resume (default: a fresh thread)")
	runCmd.Flags().String("employee", "", "Employee ID the intake is about")
}

func runInteractive(ctx context.Context, engine *intake.Engine, threadID, wizardID, employeeID string) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner(intake.Version)
	}

	render := tui.NewRenderer()
	if !interactive {
		render = func(markdown string) string { return markdown }
	}

	payload, err := engine.Init(ctx, threadID, wizardID, employeeID)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	profile := termenv.ColorProfile()

	for !payload.Terminal() {
		fmt.Println(termenv.String("== " + payload.Step.Title + " ==").Foreground(profile.Color("#38bdf8")).Bold())

		var inputs []domain.InputResponse
		for _, el := range payload.Elements {
			if !el.IsVisible {
				continue
			}
			switch el.Type {
			case domain.ElementInfo:
				attrs, err := el.InfoAttrs()
				if err != nil {
					continue
				}
				fmt.Print(render("**" + attrs.Title + "**\n\n" + attrs.Content + "\n"))
			case domain.ElementDocument:
				attrs, err := el.DocumentAttrs()
				if err != nil {
					continue
				}
				fmt.Printf("Document: %s (%s)\n", attrs.Name, attrs.DownloadURL)
			case domain.ElementQuestion:
				attrs, err := el.QuestionAttrs()
				if err != nil {
					continue
				}
				value, err := promptQuestion(reader, attrs)
				if err != nil {
					return err
				}
				inputs = append(inputs, domain.InputResponse{QuestionID: attrs.QuestionID, Value: value})
			}
		}

		payload, err = engine.Respond(ctx, threadID, payload.Step.StepID, inputs)
		if err != nil {
			return err
		}
		fmt.Println()
	}

	fmt.Println(render("# " + payload.Step.Title + "\n\nThank you, your intake has been recorded."))
	return nil
}

func promptQuestion(reader *bufio.Reader, attrs domain.QuestionAttributes) (string, error) {
	fmt.Println(attrs.QuestionText)
	if attrs.HelperText != "" {
		fmt.Println("  " + attrs.HelperText)
	}
	for _, opt := range attrs.Options {
		fmt.Printf("  [%s] %s\n", opt.Value, opt.Label)
	}

	fmt.Print("> ")
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(text), nil
}
