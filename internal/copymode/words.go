package copymode

import "unicode"

// expandWord finds the contiguous run of non-whitespace characters
// containing col. Returns ok=false when the clicked cell is whitespace or
// past the end of the line.
func expandWord(line string, col int) (start, end int, ok bool) {
	runes := []rune(line)
	if col < 0 || col >= len(runes) || unicode.IsSpace(runes[col]) {
		return 0, 0, false
	}

	start = col
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	end = col
	for end < len(runes)-1 && !unicode.IsSpace(runes[end+1]) {
		end++
	}
	return start, end, true
}
