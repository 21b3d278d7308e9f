package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/logger"
)

// watchDebounce coalesces editor write bursts into one ingestion.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep it indexed",
	Long: `Watches a directory and re-ingests supported files as they are
created or modified. Removed files are dropped from the index.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	// Pending paths awaiting their debounce deadline.
	pending := map[string]time.Time{}
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				pending[event.Name] = time.Now().Add(watchDebounce)
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				delete(pending, event.Name)
				name := filepath.Base(event.Name)
				if removed, err := ingestSvc.RemoveFile(ctx, name); err != nil {
					logger.Warn("removing %s: %v", name, err)
				} else if removed > 0 {
					cmd.Printf("%s: removed %d chunks\n", name, removed)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, deadline := range pending {
				if now.Before(deadline) {
					continue
				}
				delete(pending, path)

				result, err := ingestSvc.IngestFile(ctx, path)
				if err != nil {
					logger.Warn("ingesting %s: %v", path, err)
					continue
				}
				cmd.Printf("%s: %d chunks indexed\n", result.SourceFile, result.Chunks)
			}
		}
	}
}
