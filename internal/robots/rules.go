package robots

// Rules maps each disposition to the user-agents whose group produced it,
// in the order the groups appear in the policy.
type Rules map[Disposition][]string

// Allow returns the agents allowed to crawl the URL.
func (r Rules) Allow() []string { return r[Allow] }

// Disallow returns the agents disallowed from the URL.
func (r Rules) Disallow() []string { return r[Disallow] }

// Noindex returns the agents asked not to index the URL.
func (r Rules) Noindex() []string { return r[Noindex] }

// ApplicableRules evaluates every group of p against rawURL independently.
// The default group contributes the wildcard agent; every other group
// contributes all of its agents. Groups with no matching rule contribute
// nothing, and agents are not deduplicated across groups. p is never
// modified; a nil or empty policy yields empty buckets.
func ApplicableRules(p *Policy, rawURL string) Rules {
	rules := make(Rules)
	if p == nil {
		return rules
	}
	if p.Default != nil {
		if d, ok := p.Default.Evaluate(rawURL); ok {
			rules[d] = append(rules[d], WildcardAgent)
		}
	}
	for _, entry := range p.Entries {
		if d, ok := entry.Evaluate(rawURL); ok {
			rules[d] = append(rules[d], entry.UserAgents...)
		}
	}
	return rules
}
