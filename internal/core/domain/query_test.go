package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuerySource_ToSource(t *testing.T) {
	src := QuerySource{
		Source:     "10-K 2025",
		ChunkIndex: 7,
		Score:      0.8234,
	}

	got := src.ToSource(2)

	assert.Equal(t, "2", got.ID)
	assert.Equal(t, "10-K 2025", got.Title)
	assert.Equal(t, "Relevance: 82.3%", got.Snippet)
	assert.Equal(t, 7, got.Page)
}

func TestQuerySource_ToSource_RoundsScore(t *testing.T) {
	assert.Equal(t, "Relevance: 100.0%", QuerySource{Score: 1.0}.ToSource(0).Snippet)
	assert.Equal(t, "Relevance: 0.0%", QuerySource{Score: 0}.ToSource(0).Snippet)
	assert.Equal(t, "Relevance: 55.6%", QuerySource{Score: 0.5555}.ToSource(0).Snippet)
}

func TestNormaliseTicker(t *testing.T) {
	assert.Equal(t, "AAPL", NormaliseTicker("aapl"))
	assert.Equal(t, "MSFT", NormaliseTicker("  msft  "))
	assert.Equal(t, "", NormaliseTicker("   "))
	assert.Equal(t, "BRK.B", NormaliseTicker("brk.b"))
}
