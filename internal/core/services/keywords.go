package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// Expansion defaults.
const (
	// DefaultMaxVariants caps the size of an embedding-expanded keyword set,
	// seed terms included. The cap is global across all seed terms.
	DefaultMaxVariants = 25

	// DefaultNeighbourSimilarity is the cosine similarity a vocabulary term
	// must exceed to count as a neighbour of a seed term.
	DefaultNeighbourSimilarity = 0.50

	crossTermLimit   = 2
	queryPhraseLimit = 3
	minStripLength   = 4
)

// KeywordExpander turns a seed into a deduplicated keyword set.
type KeywordExpander struct {
	index      *EmbeddingIndex
	vocabulary driven.Vocabulary

	maxVariants   int
	minSimilarity float64

	mu        sync.Mutex
	vocabTerm []string
	vocabVecs [][]float32
}

// NewKeywordExpander creates an expander. index and vocabulary may be nil, in
// which case embedding-neighbourhood expansion returns the seed terms unchanged.
func NewKeywordExpander(index *EmbeddingIndex, vocabulary driven.Vocabulary) *KeywordExpander {
	return &KeywordExpander{
		index:         index,
		vocabulary:    vocabulary,
		maxVariants:   DefaultMaxVariants,
		minSimilarity: DefaultNeighbourSimilarity,
	}
}

// SetLimits overrides the variant ceiling and neighbour similarity.
// Non-positive values keep the current setting.
func (e *KeywordExpander) SetLimits(maxVariants int, minSimilarity float64) {
	if maxVariants > 0 {
		e.maxVariants = maxVariants
	}
	if minSimilarity > 0 {
		e.minSimilarity = minSimilarity
	}
}

// Expand dispatches on the request's workflow mode.
func (e *KeywordExpander) Expand(ctx context.Context, req domain.DiscoveryRequest) (domain.KeywordSet, error) {
	switch req.Mode {
	case domain.WorkflowManual:
		return e.ExpandManual(ctx, req.Keywords)
	case domain.WorkflowBrandContext:
		return e.ExpandBrand(ctx, req.Brand)
	case domain.WorkflowAutoKeywords:
		return e.GenerateFromBrand(req.Brand), nil
	default:
		return domain.KeywordSet{}, fmt.Errorf("%w: %q", domain.ErrInvalidWorkflow, req.Mode)
	}
}

// ExpandManual expands an explicit keyword list by embedding neighbourhood.
//
// If the embedding provider fails, the seed terms are returned together with
// an error wrapping domain.ErrEmbeddingUnavailable.
func (e *KeywordExpander) ExpandManual(ctx context.Context, keywords []string) (domain.KeywordSet, error) {
	return e.expandNeighbours(ctx, domain.NewKeywordSet(keywords...))
}

// ExpandBrand splits the brand attributes into base terms (topics first, then
// customers) and expands them by embedding neighbourhood.
func (e *KeywordExpander) ExpandBrand(ctx context.Context, brand domain.BrandContext) (domain.KeywordSet, error) {
	base := domain.NewKeywordSet(brand.Topics()...).With(brand.Customers()...)
	return e.expandNeighbours(ctx, base)
}

// GenerateFromBrand derives keywords from a BrandContext without any embedding calls.
// The result is deterministic for a given input: base topics, base customers,
// singular/plural variants, customer-topic cross terms, then query phrases.
func (e *KeywordExpander) GenerateFromBrand(brand domain.BrandContext) domain.KeywordSet {
	topics := brand.Topics()
	customers := brand.Customers()

	base := make([]string, 0, len(topics)+len(customers))
	base = append(base, topics...)
	base = append(base, customers...)

	generated := make([]string, 0, len(base)*2+crossTermLimit*crossTermLimit+queryPhraseLimit*2)
	generated = append(generated, base...)

	for _, term := range base {
		generated = append(generated, pluralVariant(term))
	}

	for _, customer := range firstN(customers, crossTermLimit) {
		for _, topic := range firstN(topics, crossTermLimit) {
			generated = append(generated, customer+" "+topic)
		}
	}

	for _, topic := range firstN(topics, queryPhraseLimit) {
		lower := strings.ToLower(topic)
		generated = append(generated, "how to "+lower, lower+" tools")
	}

	ks := domain.NewKeywordSet(generated...)
	logger.Debug("Generated %d keywords from %d topics and %d customer terms",
		ks.Len(), len(topics), len(customers))
	return ks
}

// pluralVariant strips a trailing "s" from terms longer than four characters,
// otherwise appends one. Length is counted in runes.
func pluralVariant(term string) string {
	if strings.HasSuffix(term, "s") && utf8.RuneCountInString(term) > minStripLength {
		return term[:len(term)-1]
	}
	return term + "s"
}

func firstN(terms []string, n int) []string {
	if len(terms) > n {
		return terms[:n]
	}
	return terms
}

// expandNeighbours adds vocabulary terms close to each seed term.
// The scan is one flat pass over (seed, vocabulary term) pairs and stops as
// soon as the set reaches the variant ceiling, so later seeds can never push
// the set past it.
func (e *KeywordExpander) expandNeighbours(ctx context.Context, seeds domain.KeywordSet) (domain.KeywordSet, error) {
	if seeds.IsEmpty() || seeds.Len() >= e.maxVariants {
		return seeds, nil
	}
	if !e.index.Available() || e.vocabulary == nil {
		logger.Debug("Keyword expansion skipped: no embedding provider or vocabulary")
		return seeds, nil
	}

	vocab, vocabVecs, err := e.vocabularyVectors(ctx)
	if err != nil {
		logger.Warn("Keyword expansion unavailable: %v", err)
		return seeds, err
	}

	seedTerms := seeds.Keywords()
	seedVecs, err := e.index.EncodeBatch(ctx, seedTerms)
	if err != nil {
		logger.Warn("Seed keyword embedding failed: %v", err)
		return seeds, err
	}

	var added []string
	size := seeds.Len()
	scan := seeds

scan:
	for i, seed := range seedTerms {
		for j, term := range vocab {
			if size >= e.maxVariants {
				break scan
			}
			if scan.Contains(term) || strings.Contains(seed, term) {
				continue
			}
			if CosineSimilarity(seedVecs[i], vocabVecs[j]) > e.minSimilarity {
				scan = scan.With(term)
				added = append(added, term)
				size++
			}
		}
	}

	logger.Debug("Embedding expansion added %d variants to %d seeds", len(added), seeds.Len())
	return scan, nil
}

// vocabularyVectors loads and embeds the vocabulary once per expander.
func (e *KeywordExpander) vocabularyVectors(ctx context.Context) ([]string, [][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.vocabVecs != nil {
		return e.vocabTerm, e.vocabVecs, nil
	}

	terms, err := e.vocabulary.Terms(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load vocabulary: %w", err)
	}
	vecs, err := e.index.EncodeBatch(ctx, terms)
	if err != nil {
		return nil, nil, fmt.Errorf("embed vocabulary: %w", err)
	}

	e.vocabTerm = terms
	e.vocabVecs = vecs
	logger.Debug("Embedded vocabulary of %d terms", len(terms))
	return terms, vecs, nil
}
