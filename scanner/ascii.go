package scanner

import (
	"strings"
	"unicode"
)

// JSONMarker is matched anywhere in a file name, not only as a suffix, so
// names like "data.json.bak" or "x.jsonl" are scanned too.
const JSONMarker = ".json"

func IsMatchingName(name string) bool {
	return strings.Contains(name, JSONMarker)
}

func IsASCII(b byte) bool {
	return b <= unicode.MaxASCII
}

// FirstNonASCII returns the index of the first byte > 0x7F in line, or -1.
func FirstNonASCII(line []byte) int {
	for i, b := range line {
		if !IsASCII(b) {
			return i
		}
	}
	return -1
}
