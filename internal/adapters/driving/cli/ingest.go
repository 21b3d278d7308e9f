package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index documents for question answering",
	Long: `Extracts, chunks, embeds, and indexes the given files.

Re-ingesting a file replaces its previous content in the index.
Supported formats: plain text (.txt, .md, .markdown, .rst, .log).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range args {
		result, err := ingestSvc.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		cmd.Printf("%s: %d chunks indexed\n", result.SourceFile, result.Chunks)
	}
	return nil
}
