package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docqa configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the language model, embedding provider and chunking settings, and writes a .docqa.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (llm: %s/%s, embeddings: %s/%s)\n",
			cfgFile, cfg.LLMProvider, cfg.LLMModel, cfg.EmbeddingProvider, cfg.EmbeddingModel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
