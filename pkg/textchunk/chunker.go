// Package textchunk splits long text into ordered, bounded-size pieces at
// linguistic boundaries.
//
// Splitting operates on runes, never bytes, so multi-byte Indic script
// characters are never cut mid-code-point. Break points are chosen in order of
// preference: after a sentence terminator, after whitespace, or as a hard cut
// at the size limit when a single word exceeds it. Concatenating the returned
// pieces always reproduces the input exactly.
package textchunk

import "unicode"

// terminators are the sentence-ending characters recognised as preferred
// break points: Latin punctuation plus the danda, double danda, and the
// Burmese section marks.
const terminators = ".!?।॥၊။"

// Split divides text into ordered pieces of at most maxSize runes each.
//
// Each piece ends, in order of preference, immediately after the last
// sentence terminator inside the window, immediately after the last
// whitespace inside the window, or exactly at maxSize when neither occurs.
// A maxSize below 1 is treated as 1.
func Split(text string, maxSize int) []string {
	if maxSize < 1 {
		maxSize = 1
	}
	runes := []rune(text)
	if len(runes) <= maxSize {
		if len(runes) == 0 {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	cursor := 0
	for cursor < len(runes) {
		end := cursor + maxSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[cursor:]))
			break
		}

		cut := boundary(runes, cursor, end)
		chunks = append(chunks, string(runes[cursor:cut]))
		cursor = cut
	}
	return chunks
}

// boundary returns the cut position for the window [cursor, end), scanning
// backward from the window's last rune for a sentence terminator, then for
// whitespace. The returned position is exclusive and always > cursor, so the
// caller makes strict progress.
func boundary(runes []rune, cursor, end int) int {
	for i := end - 1; i > cursor; i-- {
		if isTerminator(runes[i]) {
			return i + 1
		}
	}
	for i := end - 1; i > cursor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isTerminator(r rune) bool {
	for _, t := range terminators {
		if r == t {
			return true
		}
	}
	return false
}
