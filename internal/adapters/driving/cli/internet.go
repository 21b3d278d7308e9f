package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	internetNoSave bool
	internetJSON   bool
)

var internetCmd = &cobra.Command{
	Use:   "internet [question]",
	Short: "Answer a question from open knowledge",
	Long: `Answers a question from the generation model's general knowledge
instead of the local document index.

This path never runs automatically: it is the explicit escalation for
questions the local index could not answer confidently. Answers with
confidence of 90 or above are saved to the learned-answer cache, so the
next time the same question is asked it is answered instantly and
locally. Use --no-save to skip learning.`,
	Args: cobra.ExactArgs(1),
	RunE: runInternet,
}

func init() {
	internetCmd.Flags().BoolVar(&internetNoSave, "no-save", false, "do not save confident answers")
	internetCmd.Flags().BoolVar(&internetJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(internetCmd)
}

func runInternet(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	result, err := queryService.AskOpenKnowledge(context.Background(), args[0], !internetNoSave)
	if err != nil {
		return fmt.Errorf("asking open knowledge: %w", err)
	}

	if internetJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %d%%  (source: %s)\n", result.Confidence, result.Source)
	if result.Reasoning != "" {
		cmd.Printf("Reasoning:  %s\n", result.Reasoning)
	}
	if result.SavedToDB {
		cmd.Println("Saved to the learned-answer cache.")
	}
	return nil
}
