package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the recent conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		warnNoLLM(a)

		summary, err := a.Summary(cmd.Context())
		if err != nil {
			return err
		}
		if summary == "" {
			fmt.Println("Nothing to summarize.")
			return nil
		}
		fmt.Println(summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
