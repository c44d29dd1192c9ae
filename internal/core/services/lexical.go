package services

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// lexicalMatcher tests whether any keyword occurs in a text, ignoring case.
// It builds one Aho-Corasick automaton over the lower-cased keywords so a
// post is checked in a single pass regardless of keyword count.
type lexicalMatcher struct {
	matcher *ahocorasick.Matcher
}

func newLexicalMatcher(keywords []string) *lexicalMatcher {
	patterns := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(kw); kw != "" {
			patterns = append(patterns, kw)
		}
	}
	if len(patterns) == 0 {
		return &lexicalMatcher{}
	}
	return &lexicalMatcher{matcher: ahocorasick.NewStringMatcher(patterns)}
}

// Matches reports whether any keyword is a substring of the lower-cased text.
// Safe for concurrent use.
func (l *lexicalMatcher) Matches(text string) bool {
	if l.matcher == nil {
		return false
	}
	return len(l.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))) > 0
}
