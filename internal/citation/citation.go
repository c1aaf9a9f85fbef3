// Package citation turns generated answers and their supporting chunks into
// presentable output: keyword highlighting, navigable "Source N" links,
// rendered source blocks, statistics and a downloadable report.
package citation

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
)

// Citation points from an answer back to one retrieved chunk. SourceID is
// the 1-based rank of the chunk in the retrieval result, which is also the
// "Source N" label the model saw in its prompt.
type Citation struct {
	SourceID       int     `json:"source_id"`
	Filename       string  `json:"filename"`
	ChunkID        int     `json:"chunk_id"`
	RelevanceScore float64 `json:"relevance_score"`
	Excerpt        string  `json:"excerpt"`
}

const (
	highlightOpen  = `<mark style="background-color: #ffeb3b; padding: 2px 4px; border-radius: 3px;">`
	highlightClose = `</mark>`
	citationColor  = "#2196f3"
)

var stopWords = map[string]bool{
	"what": true, "when": true, "where": true, "who": true, "why": true, "how": true,
	"is": true, "are": true, "was": true, "were": true, "the": true, "a": true,
	"an": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"from": true, "up": true, "about": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true, "between": true, "among": true,
	"can": true, "could": true, "should": true, "would": true, "will": true, "shall": true,
	"may": true, "might": true, "must": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true, "being": true,
}

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	citationPattern = regexp.MustCompile(`(?i)\bsource\s+(\d+)\b`)
)

// ExtractKeywords returns the distinct meaningful words of question in
// lowercase: stop words and words of two characters or fewer are dropped.
func ExtractKeywords(question string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(question), -1) {
		if len([]rune(w)) <= 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	sort.Strings(keywords)
	return keywords
}

// Highlight returns text as HTML-escaped markup with every case-insensitive
// occurrence of each keyword wrapped in <mark> tags, keeping the original
// casing of the text.
func Highlight(text string, keywords []string) string {
	return wrapKeywords(text, keywords, highlightOpen, highlightClose, html.EscapeString)
}

// HighlightMarkdown is Highlight with markdown bold instead of HTML. The
// text is not escaped.
func HighlightMarkdown(text string, keywords []string) string {
	return wrapKeywords(text, keywords, "**", "**", func(s string) string { return s })
}

// wrapKeywords matches all keywords in a single pass against the raw text.
// Longer keywords are tried first so that a shorter keyword inside a longer
// one does not split the longer match. Each matched and unmatched span is
// passed through escape before markup is added, so neither inserted tags
// nor escape entities are ever matched.
func wrapKeywords(text string, keywords []string, open, close string, escape func(string) string) string {
	re := keywordPattern(keywords)
	if re == nil {
		return escape(text)
	}
	return replaceSpans(text, re, escape, func(m []int) string {
		return open + escape(text[m[0]:m[1]]) + close
	})
}

// replaceSpans rewrites each match of re with replace and every text
// between matches with escape.
func replaceSpans(text string, re *regexp.Regexp, escape func(string) string, replace func(m []int) string) string {
	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		sb.WriteString(escape(text[last:m[0]]))
		sb.WriteString(replace(m))
		last = m[1]
	}
	sb.WriteString(escape(text[last:]))
	return sb.String()
}

func keywordPattern(keywords []string) *regexp.Regexp {
	var terms []string
	for _, k := range keywords {
		if k != "" {
			terms = append(terms, k)
		}
	}
	if len(terms) == 0 {
		return nil
	}
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	for i, t := range terms {
		terms[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(terms, "|") + `)`)
}

// LinkCitations returns answer as HTML-escaped markup with "Source N"
// references rewritten into links to the matching source anchor. N is not
// checked against citations, so a reference the model invented becomes a
// dangling link.
func LinkCitations(answer string, citations []Citation) string {
	return replaceSpans(answer, citationPattern, html.EscapeString, func(m []int) string {
		n := answer[m[2]:m[3]]
		return fmt.Sprintf(`<a href="#source-%s" style="color: %s; text-decoration: none; font-weight: bold;">[Source %s]</a>`, n, citationColor, n)
	})
}

// RenderSources renders one HTML block per citation with an anchor that
// LinkCitations can target, its provenance and a highlighted excerpt.
func RenderSources(citations []Citation, question string) string {
	if len(citations) == 0 {
		return "No sources found."
	}
	keywords := ExtractKeywords(question)

	var sb strings.Builder
	for i, c := range citations {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, `<div id="source-%d" style="border-left: 4px solid %s; padding-left: 12px; margin: 10px 0;">`+"\n", c.SourceID, citationColor)
		fmt.Fprintf(&sb, `  <h4 style="color: %s; margin: 0;">Source %d: %s</h4>`+"\n", citationColor, c.SourceID, html.EscapeString(c.Filename))
		fmt.Fprintf(&sb, `  <p style="margin: 5px 0; font-size: 0.9em; color: #666;">Chunk %d | Relevance: %.3f</p>`+"\n", c.ChunkID, c.RelevanceScore)
		fmt.Fprintf(&sb, `  <div style="background-color: #f8f9fa; padding: 10px; border-radius: 5px; margin-top: 8px;">%s</div>`+"\n", Highlight(c.Excerpt, keywords))
		sb.WriteString("</div>")
	}
	return sb.String()
}

// RenderSidebar renders citations as compact markdown, bolding keywords.
func RenderSidebar(citations []Citation, question string) string {
	if len(citations) == 0 {
		return "No sources available"
	}
	keywords := ExtractKeywords(question)

	var sb strings.Builder
	for _, c := range citations {
		fmt.Fprintf(&sb, "#### Source %d: %s\n", c.SourceID, c.Filename)
		fmt.Fprintf(&sb, "**Chunk:** %d\n\n", c.ChunkID)
		fmt.Fprintf(&sb, "**Relevance:** %.3f\n\n", c.RelevanceScore)
		fmt.Fprintf(&sb, "**Content:** %s\n\n", HighlightMarkdown(c.Excerpt, keywords))
	}
	return sb.String()
}
