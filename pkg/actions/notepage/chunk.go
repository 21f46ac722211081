package notepage

import "strings"

// maxBlockLength is the provider's limit for a single text block.
const maxBlockLength = 2000

// Chunk splits content into ordered pieces no longer than limit runes.
// Split points prefer a paragraph break in the tail half of the window,
// then sentence punctuation in the tail 30%, then a word boundary in the
// tail 20%, and finally a hard cut. Chunks are trimmed and empty chunks
// are dropped.
func Chunk(content string, limit int) []string {
	if limit <= 0 {
		limit = maxBlockLength
	}

	var chunks []string

	remaining := []rune(content)
	for len(remaining) > 0 {
		if len(remaining) <= limit {
			chunks = appendChunk(chunks, string(remaining))

			break
		}

		cut := splitIndex(remaining[:limit], limit)
		chunks = appendChunk(chunks, string(remaining[:cut]))
		remaining = remaining[cut:]
	}

	return chunks
}

func appendChunk(chunks []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return chunks
	}

	return append(chunks, chunk)
}

// splitIndex returns where to cut a window of exactly limit runes.
func splitIndex(window []rune, limit int) int {
	if idx := lastParagraphBreak(window); idx >= limit/2 {
		return idx
	}

	if idx := lastSentenceEnd(window); idx >= limit*7/10 {
		return idx
	}

	if idx := lastWordBoundary(window); idx >= limit*8/10 {
		return idx
	}

	return limit
}

// lastParagraphBreak returns the rune index just past the last blank line
// in window, or -1 when there is none.
func lastParagraphBreak(window []rune) int {
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}

	return -1
}

// lastSentenceEnd returns the rune index just past the last sentence-ending
// punctuation mark in window, or -1 when there is none.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '!', '?':
			return i + 1
		}
	}

	return -1
}

// lastWordBoundary returns the rune index just past the last whitespace
// rune in window, or -1 when there is none.
func lastWordBoundary(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case ' ', '\t', '\n':
			return i + 1
		}
	}

	return -1
}
