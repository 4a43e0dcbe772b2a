package evidence

import (
	"net/url"
	"strings"
)

// defaultAuthorityDomains is the seed whitelist of regulator and
// data-protection-authority sites.
var defaultAuthorityDomains = []string{
	"fda.gov",
	"ecfr.gov",
	"gov.uk",
	"ema.europa.eu",
	"who.int",
	"eur-lex.europa.eu",
	"edpb.europa.eu",
	"curia.europa.eu",
	"ec.europa.eu",
	"commission.europa.eu",
	"cnil.fr",
	"ico.org.uk",
}

// AuthorityPolicy is the set of domains considered trustworthy sources of
// record. It is populated once at construction and read-only afterwards,
// so it is safe to share across goroutines without locking.
type AuthorityPolicy struct {
	domains map[string]struct{}
}

// NewAuthorityPolicy returns the default policy extended with any
// caller-supplied domains. Domains are bare host names (no scheme, no
// path) and are stored lower-cased.
func NewAuthorityPolicy(extra ...string) *AuthorityPolicy {
	p := &AuthorityPolicy{domains: make(map[string]struct{}, len(defaultAuthorityDomains)+len(extra))}
	for _, d := range defaultAuthorityDomains {
		p.domains[d] = struct{}{}
	}
	for _, d := range extra {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			p.domains[d] = struct{}{}
		}
	}
	return p
}

// Domains returns the policy contents in no particular order.
func (p *AuthorityPolicy) Domains() []string {
	out := make([]string, 0, len(p.domains))
	for d := range p.domains {
		out = append(out, d)
	}
	return out
}

// IsAuthoritative reports whether the URL's host is a policy domain or a
// subdomain of one. The suffix match is on whole labels, so
// "evilfda.gov" never matches "fda.gov". Unparseable URLs are simply not
// authoritative.
func (p *AuthorityPolicy) IsAuthoritative(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for d := range p.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
