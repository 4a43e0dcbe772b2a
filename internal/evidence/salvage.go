package evidence

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockPattern = regexp.MustCompile("(?is)```\\s*(?:json)?\\s*(.*?)```")
	trailingCommaBrace = regexp.MustCompile(`,\s*}`)
)

// SalvageJSON recovers the first well-formed JSON object from research
// text that should contain one but may wrap it in prose or a fenced code
// block. Candidates are tried in priority order: fenced block content
// first, then the first brace-balanced object in the full text. Each
// candidate gets a direct parse and, failing that, one repair pass that
// tolerates trailing commas. A missing or unparseable object is a normal
// outcome, not an error: the second return is false.
func SalvageJSON(text string) (any, bool) {
	if text == "" {
		return nil, false
	}

	var candidates []string
	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if balanced := findBalancedObject(text); balanced != "" {
		candidates = append(candidates, balanced)
	}

	for _, cand := range candidates {
		var v any
		if err := json.Unmarshal([]byte(cand), &v); err == nil {
			return v, true
		}
		repaired := trailingCommaBrace.ReplaceAllString(cand, "}")
		if err := json.Unmarshal([]byte(repaired), &v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// findBalancedObject returns the substring from the first '{' to the brace
// that closes it, counting depth with string awareness so braces inside
// quoted values do not count. An unterminated string or object runs the
// scan off the end and yields "".
func findBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
