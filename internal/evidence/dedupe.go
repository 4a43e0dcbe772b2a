package evidence

import "github.com/Harshitk-cp/verity/internal/domain"

// DedupeCitations drops repeated URLs, keeping the first occurrence of
// each and preserving relative order. Entries without a URL are dropped
// silently. The operation is idempotent.
func DedupeCitations(citations []domain.Citation) []domain.Citation {
	seen := make(map[string]struct{}, len(citations))
	out := make([]domain.Citation, 0, len(citations))
	for _, c := range citations {
		if c.URL == "" {
			continue
		}
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		if c.Title == "" {
			c.Title = c.URL
		}
		out = append(out, c)
	}
	return out
}

// FilterAuthoritative keeps only citations whose URL passes the policy.
func FilterAuthoritative(citations []domain.Citation, policy *AuthorityPolicy) []domain.Citation {
	out := make([]domain.Citation, 0, len(citations))
	for _, c := range citations {
		if policy.IsAuthoritative(c.URL) {
			out = append(out, c)
		}
	}
	return out
}
