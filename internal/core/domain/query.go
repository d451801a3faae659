package domain

import "fmt"

// DefaultSourceLimit is the number of sources requested per query when
// the caller does not specify one.
const DefaultSourceLimit = 5

// QueryResult is the backend's answer to a research question.
type QueryResult struct {
	// Question echoes the submitted question.
	Question string `json:"question"`

	// Answer is the full answer text. The backend returns it complete;
	// any streaming appearance is produced client-side.
	Answer string `json:"answer"`

	// Sources are the ranked citations used to produce the answer.
	Sources []QuerySource `json:"sources"`

	// ContextUsed is the number of context chunks the backend consumed.
	ContextUsed int `json:"context_used"`

	// UserID is the account the answer was produced for.
	UserID string `json:"user_id"`
}

// QuerySource is one ranked citation record from the backend.
type QuerySource struct {
	// Source is the document name.
	Source string `json:"source"`

	// ChunkIndex is the position of the cited chunk within the document.
	ChunkIndex int `json:"chunk_index"`

	// Score is the retrieval relevance score in [0, 1].
	Score float64 `json:"score"`
}

// ToSource converts a backend citation into a message Source, assigning
// the given sequential position as its ID.
func (q QuerySource) ToSource(position int) Source {
	return Source{
		ID:      fmt.Sprintf("%d", position),
		Title:   q.Source,
		Snippet: fmt.Sprintf("Relevance: %.1f%%", q.Score*100),
		Page:    q.ChunkIndex,
	}
}
