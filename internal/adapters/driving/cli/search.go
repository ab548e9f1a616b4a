package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-learn/internal/app"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search gathered resources by meaning",
	Long: `Performs semantic search over every video and paper indexed by previous
fetches. Results are ordered by cosine distance to the query.

Requires an embedding provider.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = config default)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	return withApp(cmd.Context(), func(a *app.App) error {
		if !a.Orchestrator.Capabilities().HasEmbedding {
			cmd.PrintErrln("Semantic search is disabled: no embedding provider is available.")
		}

		resp, err := a.Orchestrator.SemanticSearch(cmd.Context(), query, searchLimit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		newPrinter(cmd.OutOrStdout()).search(resp)
		return nil
	})
}
