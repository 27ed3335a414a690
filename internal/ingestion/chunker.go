package ingestion

import (
	"strings"
	"unicode/utf8"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
	minChunkLen  = 50
)

// ChunkText splits a document into overlapping chunks of roughly
// chunkSize characters. Boundaries prefer the last sentence end inside
// the window; fragments shorter than minChunkLen are dropped.
func ChunkText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			// Offsets are in bytes; never cut inside a multi-byte rune.
			end = snapToRuneStart(text, end)
			if cut := lastSentenceEnd(text[start:end]); cut > 0 {
				end = start + cut
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) >= minChunkLen {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			break
		}
		next := snapToRuneStart(text, end-chunkOverlap)
		if next <= start {
			_, width := utf8.DecodeRuneInString(text[start:])
			next = start + width
		}
		start = next
	}
	return chunks
}

// snapToRuneStart backs i up to the nearest rune boundary at or before it.
func snapToRuneStart(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// lastSentenceEnd returns the index just past the last sentence terminator
// in window, or 0 when none is far enough in to be worth cutting at.
func lastSentenceEnd(window string) int {
	best := 0
	for _, terminator := range []string{". ", "! ", "? ", ".\n", "!\n", "?\n"} {
		if idx := strings.LastIndex(window, terminator); idx+1 > best {
			best = idx + 1
		}
	}
	if best < chunkSize/2 {
		return 0
	}
	return best
}
