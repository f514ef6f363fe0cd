package robots

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
)

const maxLineBytes = 1 << 20

type parseState int

const (
	stateStart parseState = iota
	stateAgents
	stateRules
)

// Parse reads a robots.txt document. Groups start with one or more
// User-agent lines followed by Allow, Disallow or Noindex lines; a blank line
// or a new User-agent line after rules closes the group. Rules outside a
// group, comments and other directives are ignored. The first group naming
// "*" becomes the default entry and later "*" groups are dropped.
func Parse(r io.Reader) (*Policy, error) {
	p := &Policy{}
	var (
		state parseState
		entry RuleSet
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			switch state {
			case stateAgents:
				entry = RuleSet{}
				state = stateStart
			case stateRules:
				p.add(entry)
				entry = RuleSet{}
				state = stateStart
			}
			continue
		}
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if state == stateRules {
				p.add(entry)
				entry = RuleSet{}
			}
			entry.UserAgents = append(entry.UserAgents, value)
			state = stateAgents
		case string(Allow), string(Disallow), string(Noindex):
			if state == stateStart {
				continue
			}
			if rule, ok := newRule(value, Disposition(key)); ok {
				entry.Rules = append(entry.Rules, rule)
			}
			state = stateRules
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	if state == stateRules {
		p.add(entry)
	}
	return p, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Policy, error) {
	return Parse(bytes.NewReader(data))
}

func (p *Policy) add(entry RuleSet) {
	for _, agent := range entry.UserAgents {
		if agent != WildcardAgent {
			continue
		}
		if p.Default == nil {
			p.Default = &entry
		}
		return
	}
	p.Entries = append(p.Entries, entry)
}

// newRule normalizes a rule value. An empty Disallow means "allow
// everything" and becomes an Allow rule matching every path; an empty
// Noindex says nothing and is dropped.
func newRule(value string, d Disposition) (Rule, bool) {
	pattern, err := url.PathUnescape(value)
	if err != nil {
		pattern = value
	}
	if pattern == "" {
		switch d {
		case Disallow:
			d = Allow
		case Noindex:
			return Rule{}, false
		}
	}
	return Rule{Pattern: pattern, Disposition: d}, true
}
