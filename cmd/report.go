package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/citation"
)

var (
	reportFormat string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a report for the most recent question",
	Long:  `Renders the latest question, answer and cited sources as markdown or HTML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		turns, err := a.History(cmd.Context())
		if err != nil {
			return err
		}
		if len(turns) == 0 {
			return errors.New("no questions asked yet")
		}
		t := turns[len(turns)-1]

		if reportOutput != "" {
			return writeReport(reportOutput, t.Question, t.Answer, t.Citations, t.Timestamp.Local())
		}

		switch reportFormat {
		case "md", "markdown":
			fmt.Println(citation.Report(t.Question, t.Answer, t.Citations, t.Timestamp.Local()))
		case "html":
			html, err := citation.ReportHTML(t.Question, t.Answer, t.Citations, t.Timestamp.Local())
			if err != nil {
				return err
			}
			fmt.Println(html)
		default:
			return fmt.Errorf("unknown format %q (use md or html)", reportFormat)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "output format: md or html")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write to file; format follows the extension")
	rootCmd.AddCommand(reportCmd)
}
