package evidence

import (
	"sort"
	"strings"
)

// citationKeys are the object keys whose array values are treated as
// citation lists regardless of where they sit in the payload.
var citationKeys = map[string]struct{}{
	"citations":  {},
	"urls":       {},
	"references": {},
}

// CollectURLs walks a decoded JSON value and harvests every URL it
// contains: string elements of arrays under citation-bearing keys, plus
// URLs embedded in any bare string value anywhere in the tree.
// Object keys are visited in sorted order so output is deterministic.
// JSON values are trees, so the recursion needs no cycle guard.
func CollectURLs(v any) []string {
	var urls []string
	collectURLs(v, &urls)
	return urls
}

func collectURLs(v any, urls *[]string) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := val[k]
			if _, ok := citationKeys[strings.ToLower(k)]; ok {
				if list, isList := child.([]any); isList {
					for _, item := range list {
						if s, isStr := item.(string); isStr && strings.HasPrefix(s, "http") {
							*urls = append(*urls, s)
						}
					}
					continue
				}
			}
			collectURLs(child, urls)
		}
	case []any:
		for _, item := range val {
			collectURLs(item, urls)
		}
	case string:
		*urls = append(*urls, ExtractURLs(val)...)
	}
}
