package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-learn/internal/app"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch [topic]",
	Aliases: []string{"learn"},
	Short:   "Gather videos and papers for a topic",
	Long: `Fetches videos and research papers for a topic, enriches the papers with
an excerpt of their full text when available and indexes everything for
semantic search.

Multi-word topics can be passed unquoted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	return withApp(cmd.Context(), func(a *app.App) error {
		result, err := a.Orchestrator.Run(cmd.Context(), topic)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		newPrinter(cmd.OutOrStdout()).run(result)
		return nil
	})
}
