package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/qa"
)

var (
	askK      int
	askJSON   bool
	askReport string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the indexed documents",
	Long:  `Retrieves the passages most relevant to the question and asks the language model to answer from them, citing each source by number.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		warnNoLLM(a)

		question := strings.Join(args, " ")
		if !a.Processed() {
			fmt.Fprintln(os.Stderr, "Warning: no documents indexed; run `docqa ingest` first. Answering from general knowledge.")
		}

		switch res := a.AskQuestion(cmd.Context(), question, askK).(type) {
		case *qa.Failure:
			if askJSON {
				_ = printJSON(res)
			}
			return errors.New(res.Reason)
		case *qa.Success:
			if askJSON {
				return printJSON(res)
			}
			printAnswer(question, res)
			if askReport != "" {
				return writeReport(askReport, question, res.Answer, res.Citations, time.Now())
			}
		}
		return nil
	},
}

func printAnswer(question string, res *qa.Success) {
	fmt.Println(res.Answer)
	fmt.Println()
	if verbose {
		fmt.Fprintf(os.Stderr, "Model: %s, tokens: %d in / %d out", res.Model, res.InputTokens, res.OutputTokens)
		if res.EstimatedCost > 0 {
			fmt.Fprintf(os.Stderr, " (~$%.4f)", res.EstimatedCost)
		}
		fmt.Fprintln(os.Stderr)
	}
	if !res.Grounded {
		fmt.Println("(No relevant documents were found; this answer is from general knowledge.)")
		return
	}
	fmt.Println("Sources")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println(citation.RenderSidebar(res.Citations, question))
}

// writeReport saves a question/answer report. The format follows the file
// extension: .html and .htm get HTML, anything else markdown.
func writeReport(path, question, answer string, citations []citation.Citation, at time.Time) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		html, err := citation.ReportHTML(question, answer, citations, at)
		if err != nil {
			return err
		}
		content = html
	default:
		content = citation.Report(question, answer, citations, at)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	return nil
}

func init() {
	askCmd.Flags().IntVarP(&askK, "top-k", "k", 0, "number of passages to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().StringVar(&askReport, "report", "", "also write a report to this file (.md or .html)")
	rootCmd.AddCommand(askCmd)
}
