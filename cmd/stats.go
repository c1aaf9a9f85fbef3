package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about the indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		docs := a.DocumentStats()
		idx := a.IndexStats()
		if statsJSON {
			return printJSON(map[string]any{"documents": docs, "index": idx})
		}

		if !idx.Initialized {
			fmt.Println("No index found. Run `docqa ingest` to index documents.")
			return nil
		}

		fmt.Println("Index")
		fmt.Printf("  Backend:      %s\n", idx.Backend)
		fmt.Printf("  Model:        %s\n", idx.EmbeddingModel)
		if idx.Dimension != nil {
			fmt.Printf("  Dimension:    %d\n", *idx.Dimension)
		}
		fmt.Printf("  Chunks:       %d\n", idx.NumDocuments)
		fmt.Println()
		fmt.Println("Documents")
		fmt.Printf("  Sources:      %d\n", docs.NumSources)
		fmt.Printf("  Characters:   %d\n", docs.TotalCharacters)
		fmt.Printf("  Avg chunk:    %.1f chars\n", docs.AverageChunkSize)
		for _, s := range docs.Sources {
			fmt.Printf("    - %s\n", s)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}
