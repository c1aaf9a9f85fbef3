package app

import "github.com/ziadkadry99/docqa/internal/chunker"

// DocumentStats describes a processed corpus.
type DocumentStats struct {
	TotalChunks      int      `json:"total_chunks"`
	TotalCharacters  int      `json:"total_characters"`
	AverageChunkSize float64  `json:"average_chunk_size"`
	Sources          []string `json:"sources"`
	NumSources       int      `json:"num_sources"`
}

// ComputeStats summarizes chunks. Sources are listed in first-seen order.
func ComputeStats(chunks []chunker.Chunk) DocumentStats {
	st := DocumentStats{Sources: []string{}}
	if len(chunks) == 0 {
		return st
	}

	seen := make(map[string]bool)
	for _, c := range chunks {
		st.TotalCharacters += c.CharLength
		if !seen[c.SourceName] {
			seen[c.SourceName] = true
			st.Sources = append(st.Sources, c.SourceName)
		}
	}
	st.TotalChunks = len(chunks)
	st.AverageChunkSize = float64(st.TotalCharacters) / float64(st.TotalChunks)
	st.NumSources = len(st.Sources)
	return st
}
