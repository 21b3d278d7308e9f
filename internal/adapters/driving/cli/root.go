// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/extract/plaintext"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

var (
	verbose bool
	dataDir string
)

// Services wired by ensureServices and shared by the commands.
var (
	configStore  driven.ConfigStore
	settings     domain.Settings
	queryService *services.QueryService
	ingestSvc    *services.IngestService
	closers      []func() error
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Self-learning question answering over your documents",
	Long: `Recall answers questions from your own documents and remembers
what it learns.

Ingested files are chunked, embedded, and indexed locally. Questions are
answered from the indexed content with a confidence score; low-confidence
answers can be escalated to open knowledge on request, and confident
open-knowledge answers are cached so the same question never needs
escalation twice.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.recall)")
}

// Execute runs the CLI.
func Execute() {
	defer closeServices()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		closeServices()
		os.Exit(1)
	}
}

// baseDir resolves the application directory, ~/.recall by default.
func baseDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".recall"), nil
}

// ensureConfig wires the config store on first use.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}

	dir, err := baseDir()
	if err != nil {
		return err
	}

	store, err := configfile.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	configStore = store
	settings = configfile.LoadSettings(store)
	return nil
}

// ensureServices wires the full pipeline on first use: embedding stack,
// vector index, learned-answer store, generation stack, and the two
// core services on top of them.
func ensureServices() error {
	if queryService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	dir, err := baseDir()
	if err != nil {
		return err
	}

	embedder, err := ai.EmbeddingService(settings)
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close)

	index, err := flat.New(flat.Config{
		Dir:        filepath.Join(dir, "index"),
		Dimensions: embedder.Dimensions(),
	})
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	closers = append(closers, index.Close)

	learned, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return fmt.Errorf("opening learned-answer store: %w", err)
	}
	closers = append(closers, learned.Close)

	generator, err := ai.GenerationService(settings)
	if err != nil {
		return err
	}
	closers = append(closers, generator.Close)

	queryService = services.NewQueryService(embedder, index, generator, learned)
	ingestSvc = services.NewIngestService(
		[]driven.TextExtractor{plaintext.New()},
		chunker.New(
			chunker.WithChunkSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
		),
		embedder,
		index,
	)
	return nil
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("closing service: %v", err)
		}
	}
	closers = nil
}
