package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "--- Result %d (similarity: %.4f) ---\n", i+1, r.Score)
		fmt.Fprintf(&sb, "File: %s (chunk %d)\n", r.Chunk.SourceName, r.Chunk.ID)
		if ft := r.Chunk.Metadata["file_type"]; ft != "" {
			fmt.Fprintf(&sb, "Type: %s\n", ft)
		}
		sb.WriteString("\n")
		sb.WriteString(r.Chunk.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
