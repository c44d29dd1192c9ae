package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeywordSet_DeduplicatesPreservingOrder(t *testing.T) {
	ks := NewKeywordSet("GTM", "SaaS", "GTM", "saas", "SaaS")

	assert.Equal(t, []string{"GTM", "SaaS", "saas"}, ks.Keywords())
	assert.Equal(t, 3, ks.Len())
}

func TestNewKeywordSet_DropsEmptyTerms(t *testing.T) {
	ks := NewKeywordSet("", "  ", " lead gen ", "lead gen")

	assert.Equal(t, []string{"lead gen"}, ks.Keywords())
}

func TestKeywordSet_Primary(t *testing.T) {
	t.Run("first inserted term", func(t *testing.T) {
		ks := NewKeywordSet("sales automation", "crm")
		primary, ok := ks.Primary()
		assert.True(t, ok)
		assert.Equal(t, "sales automation", primary)
	})

	t.Run("empty set", func(t *testing.T) {
		var ks KeywordSet
		_, ok := ks.Primary()
		assert.False(t, ok)
		assert.True(t, ks.IsEmpty())
	})
}

func TestKeywordSet_KeywordsReturnsCopy(t *testing.T) {
	ks := NewKeywordSet("a", "b")
	terms := ks.Keywords()
	terms[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, ks.Keywords())
}

func TestKeywordSet_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewKeywordSet("a")
	extended := base.With("b", "a", "c")

	assert.Equal(t, []string{"a"}, base.Keywords())
	assert.Equal(t, []string{"a", "b", "c"}, extended.Keywords())
	assert.True(t, extended.Contains("c"))
	assert.False(t, base.Contains("c"))
}

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma list", "B2B Data, GTM ,SaaS", []string{"B2B Data", "GTM", "SaaS"}},
		{"empty", "", []string{}},
		{"no commas", "Founders", []string{"Founders"}},
		{"stray commas", ",, RevOps ,", []string{"RevOps"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTerms(tt.input))
		})
	}
}
