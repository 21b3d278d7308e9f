package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	learnedLimit int
	learnedJSON  bool
)

var learnedCmd = &cobra.Command{
	Use:   "learned",
	Short: "List learned answers",
	Long: `Lists answers in the learned-answer cache, newest first.

Learned answers are exact-match: a question is answered from the cache
only when it matches a stored question after trimming and case-folding.`,
	RunE: runLearned,
}

var forgetCmd = &cobra.Command{
	Use:   "forget [question]",
	Short: "Remove a learned answer",
	Long: `Removes the learned answer for the given question.

Matching is exact after trimming and case-folding, the same rule used
when answering.`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func init() {
	learnedCmd.Flags().IntVarP(&learnedLimit, "limit", "n", 20, "maximum number of answers to list")
	learnedCmd.Flags().BoolVar(&learnedJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(learnedCmd)
	rootCmd.AddCommand(forgetCmd)
}

func runLearned(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	records, err := queryService.ListLearned(context.Background(), learnedLimit)
	if err != nil {
		return fmt.Errorf("listing learned answers: %w", err)
	}

	if learnedJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling learned answers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No learned answers yet.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("Q: %s\n", rec.Question)
		cmd.Printf("A: %s\n", rec.Answer)
		cmd.Printf("   confidence %d%%, asked %d times, learned %s\n\n",
			rec.Confidence, rec.AccessCount, rec.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runForget(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	removed, err := queryService.Forget(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("forgetting answer: %w", err)
	}

	if !removed {
		cmd.Printf("No learned answer for %q\n", args[0])
		return nil
	}
	cmd.Printf("Forgot the answer to %q\n", args[0])
	return nil
}
