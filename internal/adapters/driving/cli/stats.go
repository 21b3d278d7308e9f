package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and cache statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	stats, err := queryService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Vector index:")
	cmd.Printf("  vectors:    %d\n", stats.Index.TotalVectors)
	cmd.Printf("  chunks:     %d\n", stats.Index.TotalChunks)
	cmd.Printf("  dimensions: %d\n", stats.Index.EmbeddingDim)
	cmd.Println("Learned answers:")
	cmd.Printf("  total:          %d\n", stats.Learned.Total)
	cmd.Printf("  avg confidence: %.1f%%\n", stats.Learned.AvgConfidence)
	return nil
}
