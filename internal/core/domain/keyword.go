package domain

import "strings"

// KeywordSet is an insertion-ordered set of search keywords.
// Identity is case-sensitive; empty and whitespace-only terms are never stored.
// The first keyword added is the primary keyword.
type KeywordSet struct {
	terms []string
	index map[string]struct{}
}

// NewKeywordSet builds a set from terms, keeping the first occurrence of each.
func NewKeywordSet(terms ...string) KeywordSet {
	var ks KeywordSet
	for _, t := range terms {
		ks.add(t)
	}
	return ks
}

// add inserts a trimmed term if it is non-empty and not already present.
// It reports whether the set grew.
func (ks *KeywordSet) add(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	if ks.index == nil {
		ks.index = make(map[string]struct{})
	}
	if _, ok := ks.index[term]; ok {
		return false
	}
	ks.index[term] = struct{}{}
	ks.terms = append(ks.terms, term)
	return true
}

// With returns a new set holding the receiver's terms followed by extra.
func (ks KeywordSet) With(extra ...string) KeywordSet {
	out := NewKeywordSet(ks.terms...)
	for _, t := range extra {
		out.add(t)
	}
	return out
}

// Keywords returns a copy of the terms in generation order.
func (ks KeywordSet) Keywords() []string {
	out := make([]string, len(ks.terms))
	copy(out, ks.terms)
	return out
}

// Len returns the number of keywords.
func (ks KeywordSet) Len() int {
	return len(ks.terms)
}

// IsEmpty reports whether the set holds no keywords.
func (ks KeywordSet) IsEmpty() bool {
	return len(ks.terms) == 0
}

// Contains reports whether term is in the set (case-sensitive).
func (ks KeywordSet) Contains(term string) bool {
	_, ok := ks.index[strings.TrimSpace(term)]
	return ok
}

// Primary returns the first keyword in generation order.
func (ks KeywordSet) Primary() (string, bool) {
	if len(ks.terms) == 0 {
		return "", false
	}
	return ks.terms[0], true
}

// SplitTerms splits a comma-delimited attribute string into trimmed, non-empty terms.
// Malformed input (empty string, stray commas) yields fewer terms, never an error.
func SplitTerms(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
