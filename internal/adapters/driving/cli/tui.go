package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Recall.

Ask questions against your indexed documents in a conversational view.
When an answer comes back with low confidence, press Ctrl+O to retry
the question against open knowledge.

Controls:
  Enter    - Ask the typed question
  Ctrl+O   - Retry last question with open knowledge (when offered)
  ↑/↓      - Scroll the transcript
  Esc      - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Query: queryService})
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
