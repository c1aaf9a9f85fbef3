package citation

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Stats aggregates the citations that support one answer.
type Stats struct {
	TotalSources     int      `json:"total_sources"`
	UniqueFiles      int      `json:"unique_files"`
	FilesUsed        []string `json:"files_used"`
	AverageRelevance float64  `json:"average_relevance"`
	MaxRelevance     float64  `json:"max_relevance"`
	MinRelevance     float64  `json:"min_relevance"`
}

// Statistics summarizes citations. ok is false when there are none, since
// the relevance aggregates are undefined for an empty list.
func Statistics(citations []Citation) (s Stats, ok bool) {
	if len(citations) == 0 {
		return Stats{}, false
	}

	files := make(map[string]bool)
	s.MaxRelevance = citations[0].RelevanceScore
	s.MinRelevance = citations[0].RelevanceScore
	var sum float64
	for _, c := range citations {
		if !files[c.Filename] {
			files[c.Filename] = true
			s.FilesUsed = append(s.FilesUsed, c.Filename)
		}
		sum += c.RelevanceScore
		s.MaxRelevance = max(s.MaxRelevance, c.RelevanceScore)
		s.MinRelevance = min(s.MinRelevance, c.RelevanceScore)
	}
	sort.Strings(s.FilesUsed)
	s.TotalSources = len(citations)
	s.UniqueFiles = len(files)
	s.AverageRelevance = sum / float64(len(citations))
	return s, true
}

// ReportTimeFormat is the layout of the "Generated on" line.
const ReportTimeFormat = "2006-01-02 15:04:05"

// Report builds a markdown document of a question, its answer and every
// citation. The output depends only on its arguments.
func Report(question, answer string, citations []Citation, generatedAt time.Time) string {
	lines := []string{
		"# Document Q&A Report",
		"**Generated on:** " + generatedAt.Format(ReportTimeFormat),
		"",
		"## Question",
		question,
		"",
		"## Answer",
		answer,
		"",
		"## Sources",
	}

	if len(citations) == 0 {
		lines = append(lines, "No sources available.")
	}
	for _, c := range citations {
		lines = append(lines,
			fmt.Sprintf("### Source %d: %s", c.SourceID, c.Filename),
			fmt.Sprintf("- **Chunk:** %d", c.ChunkID),
			fmt.Sprintf("- **Relevance Score:** %.3f", c.RelevanceScore),
			fmt.Sprintf("- **Content:** %s", c.Excerpt),
			"",
		)
	}
	return strings.Join(lines, "\n")
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// ReportHTML renders Report as a standalone HTML page.
func ReportHTML(question, answer string, citations []Citation, generatedAt time.Time) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Report(question, answer, citations, generatedAt)), &body); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Document Q&amp;A Report</title>\n</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}
