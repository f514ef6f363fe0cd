package robots

import "testing"

func TestRuleSetEvaluateLongestMatchWins(t *testing.T) {
	t.Parallel()

	rs := RuleSet{Rules: []Rule{
		{Pattern: "/", Disposition: Allow},
		{Pattern: "/private", Disposition: Disallow},
		{Pattern: "/private/open", Disposition: Allow},
		{Pattern: "/private/open/hidden", Disposition: Noindex},
	}}
	cases := map[string]Disposition{
		"http://a.com/":                         Allow,
		"http://a.com/private":                  Disallow,
		"http://a.com/private/x":                Disallow,
		"http://a.com/private/open/page":        Allow,
		"http://a.com/private/open/hidden/deep": Noindex,
	}
	for url, want := range cases {
		got, ok := rs.Evaluate(url)
		if !ok || got != want {
			t.Errorf("Evaluate(%q) = %q, %v; want %q", url, got, ok, want)
		}
	}
}

func TestRuleSetEvaluateTieGoesToFirstDeclared(t *testing.T) {
	t.Parallel()

	rs := RuleSet{Rules: []Rule{
		{Pattern: "/page", Disposition: Disallow},
		{Pattern: "/page", Disposition: Allow},
	}}
	if got, _ := rs.Evaluate("http://a.com/page"); got != Disallow {
		t.Fatalf("expected first declared rule to win, got %q", got)
	}
}

func TestRuleSetEvaluateNoMatch(t *testing.T) {
	t.Parallel()

	rs := RuleSet{Rules: []Rule{{Pattern: "/admin", Disposition: Disallow}}}
	if _, ok := rs.Evaluate("http://a.com/public"); ok {
		t.Fatal("expected no match")
	}
	if _, ok := (RuleSet{}).Evaluate("http://a.com/"); ok {
		t.Fatal("empty rule set must not match")
	}
}

func TestRuleSetEvaluateUsesQuery(t *testing.T) {
	t.Parallel()

	rs := RuleSet{Rules: []Rule{{Pattern: "/search?q=", Disposition: Disallow}}}
	if _, ok := rs.Evaluate("http://a.com/search?q=go"); !ok {
		t.Fatal("expected query-aware match")
	}
	if _, ok := rs.Evaluate("http://a.com/search"); ok {
		t.Fatal("expected no match without query")
	}
}

func TestPatternMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern, target string
		want            bool
	}{
		{"/admin", "/admin", true},
		{"/admin", "/administrator", true},
		{"/admin", "/", false},
		{"", "/anything", true},
		{"/*.pdf", "/docs/file.pdf", true},
		{"/*.pdf$", "/docs/file.pdf", true},
		{"/*.pdf$", "/docs/file.pdf?x=1", false},
		{"/a*b*c", "/a-x-b-y-c-z", true},
		{"/a*b*c", "/a-x-c-y-b", false},
		{"/page$", "/page", true},
		{"/page$", "/page/", false},
		{"*", "/x", true},
	}
	for _, tc := range cases {
		if got := patternMatches(tc.pattern, tc.target); got != tc.want {
			t.Errorf("patternMatches(%q, %q) = %v, want %v", tc.pattern, tc.target, got, tc.want)
		}
	}
}

func TestRuleSetEvaluateQueryKeepsPlusSigns(t *testing.T) {
	t.Parallel()

	p, err := ParseBytes([]byte("User-agent: *\nDisallow: /search?q=a+b\n"))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	cases := map[string]bool{
		"http://a.com/search?q=a+b":   true,
		"http://a.com/search?q=a%2Bb": true,
		"http://a.com/search?q=a%20b": false,
		"http://a.com/search?q=ab":    false,
	}
	for url, want := range cases {
		got, ok := p.Default.Evaluate(url)
		if matched := ok && got == Disallow; matched != want {
			t.Errorf("Evaluate(%q) = %q, %v; want disallow match %v", url, got, ok, want)
		}
	}
}
