package ingestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextEmpty(t *testing.T) {
	assert.Nil(t, ChunkText(""))
	assert.Nil(t, ChunkText("   \n\t  "))
}

func TestChunkTextShortDocument(t *testing.T) {
	text := "Health insurance covers hospitalization costs and related medical expenses."

	chunks := ChunkText(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextDropsTinyFragments(t *testing.T) {
	assert.Nil(t, ChunkText("Too short."))
}

func TestChunkTextRespectsSizeAndOverlap(t *testing.T) {
	sentence := "Term insurance pays a death benefit to the nominee when the insured dies within the policy term. "
	text := strings.Repeat(sentence, 40) // ~3900 chars

	chunks := ChunkText(text)

	require.Greater(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), chunkSize)
		assert.GreaterOrEqual(t, len(chunk), minChunkLen)
	}

	// Consecutive chunks share text because of the overlap window.
	tail := chunks[0][len(chunks[0])-50:]
	assert.Contains(t, chunks[1], strings.TrimSpace(tail))
}

func TestChunkTextNeverSplitsMultiByteRunes(t *testing.T) {
	// No sentence terminators, so every cut is a hard one landing near a
	// rupee sign.
	text := strings.Repeat("cover ₹500000 ", 200)

	chunks := ChunkText(text)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
	}
}

func TestChunkTextDevanagariStaysValid(t *testing.T) {
	sentence := "स्वास्थ्य बीमा अस्पताल में भर्ती का खर्च कवर करता है "
	text := strings.Repeat(sentence, 30)

	chunks := ChunkText(text)

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
	}
}

func TestChunkTextPrefersSentenceBoundary(t *testing.T) {
	sentence := "Every policy has a free look period of fifteen days from delivery. "
	text := strings.Repeat(sentence, 30)

	chunks := ChunkText(text)

	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "chunk should end at a sentence boundary, got %q", chunks[0][len(chunks[0])-20:])
}
