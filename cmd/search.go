package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchK    int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search over the indexed documents",
	Long:  `Finds the chunks most similar to the query without calling the language model.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		query := strings.Join(args, " ")
		results, err := a.Search(cmd.Context(), query, searchK)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		if searchJSON {
			return printJSON(results)
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("Results for %q:\n\n", query)
		for i, r := range results {
			fmt.Printf("  %d. %s  chunk %d  (score: %.3f)\n", i+1, r.Chunk.SourceName, r.Chunk.ID, r.Score)
			fmt.Printf("     %s\n\n", truncate(strings.Join(strings.Fields(r.Chunk.Content), " "), 160))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}
