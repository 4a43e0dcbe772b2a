// Package evidence contains the pure, non-blocking leaves of the citation
// pipeline: URL extraction, authority checks, deduplication, JSON salvage
// and recursive URL harvesting. Nothing here errors on malformed input;
// bad fragments yield empty results so one broken citation can never abort
// an otherwise-successful stage.
package evidence

import (
	"regexp"
	"strings"
)

// urlPattern captures http/https runs up to whitespace or common delimiters.
var urlPattern = regexp.MustCompile(`https?://[^\s'"<>()]+`)

// ExtractURLs scans arbitrary text for http/https URLs in first-occurrence
// order. Matches are normalized by trimming surrounding brackets and the
// trailing sentence punctuation the pattern tends to swallow. Duplicates
// are allowed at this stage.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}

	found := urlPattern.FindAllString(text, -1)
	cleaned := make([]string, 0, len(found))
	for _, u := range found {
		u = strings.Trim(u, "[]()<>\n\r\t")
		u = strings.TrimRight(u, ".,;:")
		if u != "" {
			cleaned = append(cleaned, u)
		}
	}
	return cleaned
}
