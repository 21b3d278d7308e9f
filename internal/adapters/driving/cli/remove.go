package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [file]",
	Short: "Remove a document from the index",
	Long: `Removes every chunk of the given source file from retrieval.

The file is identified by the name shown in answer sources, not by its
original path. Vectors are tombstoned rather than physically deleted;
re-ingest the remaining files to reclaim space.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	removed, err := ingestSvc.RemoveFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("removing %s: %w", args[0], err)
	}

	if removed == 0 {
		cmd.Printf("No chunks found for %s\n", args[0])
		return nil
	}
	cmd.Printf("Removed %d chunks of %s\n", removed, args[0])
	return nil
}
