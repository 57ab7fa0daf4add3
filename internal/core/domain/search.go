package domain

// SearchResult is one retrieved recipe with its similarity score.
// Results are deduplicated by recipe text before being returned, so a
// result stands for every chunk of the same recipe that was hit.
type SearchResult struct {
	// ChunkID is the id of the first-ranked chunk that hit.
	ChunkID int64 `json:"chunk_id"`

	// Text is the full rendered recipe payload.
	Text string `json:"text"`

	// Score is the cosine similarity reported by the index.
	Score float64 `json:"score"`
}
