package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/citation"
)

var (
	historyClear bool
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the conversation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if historyClear {
			n, err := a.ClearHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d turn(s).\n", n)
			return nil
		}

		turns, err := a.History(cmd.Context())
		if err != nil {
			return err
		}
		if historyLimit > 0 && len(turns) > historyLimit {
			turns = turns[len(turns)-historyLimit:]
		}
		if historyJSON {
			return printJSON(turns)
		}
		if len(turns) == 0 {
			fmt.Println("No conversation history.")
			return nil
		}

		for _, t := range turns {
			fmt.Printf("[%s] Q: %s\n", t.Timestamp.Local().Format(citation.ReportTimeFormat), t.Question)
			fmt.Printf("  A: %s\n", truncate(t.Answer, 300))
			if len(t.Citations) > 0 {
				fmt.Printf("  Sources: %d\n", len(t.Citations))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all conversation history")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show only the most recent N turns")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}
