package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against your indexed documents",
	Long: `Answers a question from the local document index.

Previously learned answers are returned instantly. Otherwise the most
relevant chunks are retrieved, diversified across source files, and fed
to the generation model, which reports how confident it is in the
result. When confidence is low the command suggests escalating with
'recall internet'.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 5, "number of chunks to use as context")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	result, err := queryService.Ask(context.Background(), args[0], askTopK)
	if err != nil {
		return fmt.Errorf("asking question: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printQueryResult(cmd, result)
	return nil
}

func printQueryResult(cmd *cobra.Command, result *domain.QueryResult) {
	cmd.Println(result.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %d%%  (source: %s)\n", result.Confidence, result.Source)

	if result.Reasoning != "" {
		cmd.Printf("Reasoning:  %s\n", result.Reasoning)
	}

	if len(result.Sources) > 0 {
		cmd.Println("Sources:")
		for _, ref := range result.Sources {
			cmd.Printf("  - %s (chunk %d, distance %.3f)\n", ref.File, ref.ChunkIndex, ref.Distance)
		}
	}

	if result.OfferInternet {
		cmd.Println()
		cmd.Printf("Low confidence. Try: recall internet %q\n", result.Question)
	}
}
