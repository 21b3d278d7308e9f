package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, and other options.

Settings live in ~/.recall/config.toml. API keys are entered without
echo via 'settings key' and are never printed back.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value by key.

Examples:
  recall settings set generation.provider groq
  recall settings set generation.model llama-3.3-70b-versatile
  recall settings set embedding.provider openai
  recall settings set chunking.size 400`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "key [embedding|generation]",
	Short: "Set an API key (prompted, no echo)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	cmd.Println("Embedding:")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.APIKey)
	cmd.Println("Embedding fallback:")
	printProvider(cmd, settings.EmbeddingFallback.Provider, settings.EmbeddingFallback.Model, "")
	cmd.Println("Generation:")
	printProvider(cmd, settings.Generation.Provider, settings.Generation.Model, settings.Generation.APIKey)
	cmd.Println("Generation fallback:")
	printProvider(cmd, settings.GenerationFallback.Provider, settings.GenerationFallback.Model, "")
	cmd.Println("Chunking:")
	cmd.Printf("  size:    %d\n", settings.ChunkSize)
	cmd.Printf("  overlap: %d\n", settings.ChunkOverlap)
	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, apiKey string) {
	if !provider.IsValid() {
		cmd.Println("  (not configured)")
		return
	}
	cmd.Printf("  provider: %s\n", provider.Description())
	if model != "" {
		cmd.Printf("  model:    %s\n", model)
	}
	if provider.RequiresAPIKey() {
		if apiKey == "" {
			cmd.Println("  api key:  missing")
		} else {
			cmd.Println("  api key:  set")
		}
	}
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if strings.HasSuffix(key, ".api_key") {
		return fmt.Errorf("use 'recall settings key' to set API keys")
	}

	// Numeric values must be stored typed or they read back as 0.
	var typed any = value
	if n, err := strconv.Atoi(value); err == nil {
		typed = n
	}

	if err := configStore.Set(key, typed); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsKey(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	var configKey string
	switch args[0] {
	case "embedding":
		configKey = configfile.KeyEmbeddingAPIKey
	case "generation":
		configKey = configfile.KeyGenerationAPIKey
	default:
		return fmt.Errorf("unknown key target %q (want embedding or generation)", args[0])
	}

	cmd.Printf("API key for %s: ", args[0])
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading key: %w", err)
	}
	if len(key) == 0 {
		return fmt.Errorf("empty key")
	}

	if err := configStore.Set(configKey, string(key)); err != nil {
		return fmt.Errorf("saving key: %w", err)
	}
	cmd.Println("Key saved.")
	return nil
}
