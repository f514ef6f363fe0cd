package robots

import (
	"net/url"
	"strings"
)

// Disposition is the outcome of matching a URL against a rule group.
type Disposition string

// Rule dispositions understood by the parser.
const (
	Allow    Disposition = "allow"
	Disallow Disposition = "disallow"
	Noindex  Disposition = "noindex"
)

// WildcardAgent is reported for the default ("*") group.
const WildcardAgent = "*"

// Rule pairs a path pattern with its disposition.
type Rule struct {
	Pattern     string
	Disposition Disposition
}

// RuleSet is one robots.txt group: its user-agents and ordered rules.
type RuleSet struct {
	UserAgents []string
	Rules      []Rule
}

// Policy is a parsed robots.txt. Default holds the first group addressed to
// "*"; Entries holds every other group in file order. A Policy is read-only
// once parsed.
type Policy struct {
	Default *RuleSet
	Entries []RuleSet
}

// Empty reports whether the policy contains no groups.
func (p *Policy) Empty() bool {
	return p == nil || (p.Default == nil && len(p.Entries) == 0)
}

// Evaluate matches rawURL against the rule set. The longest matching
// pattern wins; among equally long patterns the first declared wins. The
// boolean is false when no rule applies.
func (rs RuleSet) Evaluate(rawURL string) (Disposition, bool) {
	target := matchTarget(rawURL)
	var (
		best  Rule
		found bool
	)
	for _, rule := range rs.Rules {
		if !patternMatches(rule.Pattern, target) {
			continue
		}
		if !found || len(rule.Pattern) > len(best.Pattern) {
			best = rule
			found = true
		}
	}
	return best.Disposition, found
}

// matchTarget reduces a URL to the unescaped path and query that rules are
// compared against.
func matchTarget(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	target := u.Path
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		query, err := url.PathUnescape(u.RawQuery)
		if err != nil {
			query = u.RawQuery
		}
		target += "?" + query
	}
	return target
}

// patternMatches applies a robots path pattern: a prefix match where "*"
// matches any run of characters and a trailing "$" anchors the end.
func patternMatches(pattern, target string) bool {
	anchored := strings.HasSuffix(pattern, "$")
	if anchored {
		pattern = strings.TrimSuffix(pattern, "$")
	}
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(target, parts[0]) {
		return false
	}
	rest := target[len(parts[0]):]
	if len(parts) == 1 {
		return !anchored || rest == ""
	}
	for _, part := range parts[1 : len(parts)-1] {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	last := parts[len(parts)-1]
	if anchored {
		return strings.HasSuffix(rest, last)
	}
	return strings.Contains(rest, last)
}
