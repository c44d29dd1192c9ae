package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// Ensure DiscoveryService implements the interface.
var _ driving.DiscoveryService = (*DiscoveryService)(nil)

// DiscoveryService runs the discovery pipeline: expand keywords, embed them,
// gather candidate communities from keyword search, score each candidate and
// supplement the accepted list with related communities.
type DiscoveryService struct {
	expander   *KeywordExpander
	index      *EmbeddingIndex
	aggregator *CandidateAggregator
	scorer     *RelevanceScorer
	lookup     driven.CommunityLookup
	runs       driven.RunStore

	postsPerKeyword    int
	scoringConcurrency int

	now   func() time.Time
	newID func() string
}

// NewDiscoveryService creates a discovery service.
// The index, lookup and runs parameters are optional (can be nil).
func NewDiscoveryService(
	expander *KeywordExpander,
	index *EmbeddingIndex,
	aggregator *CandidateAggregator,
	scorer *RelevanceScorer,
	lookup driven.CommunityLookup,
	runs driven.RunStore,
) *DiscoveryService {
	return &DiscoveryService{
		expander:           expander,
		index:              index,
		aggregator:         aggregator,
		scorer:             scorer,
		lookup:             lookup,
		runs:               runs,
		postsPerKeyword:    DefaultPostsPerKeyword,
		scoringConcurrency: 1,
		now:                time.Now,
		newID:              uuid.NewString,
	}
}

// SetPostsPerKeyword overrides the per-keyword search cap.
func (s *DiscoveryService) SetPostsPerKeyword(n int) {
	if n > 0 {
		s.postsPerKeyword = n
	}
}

// SetScoringConcurrency bounds the number of candidates scored in parallel.
// Acceptance order and the desired-count cap are the same for any value.
func (s *DiscoveryService) SetScoringConcurrency(n int) {
	if n > 0 {
		s.scoringConcurrency = n
	}
}

// ExpandKeywords runs only the keyword stage for req.
// Embedding failures degrade to the unexpanded seed terms.
func (s *DiscoveryService) ExpandKeywords(ctx context.Context, req domain.DiscoveryRequest) (domain.KeywordSet, error) {
	if err := req.Validate(); err != nil {
		return domain.KeywordSet{}, err
	}
	keywords, err := s.expander.Expand(ctx, req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, domain.ErrInvalidWorkflow) {
			return domain.KeywordSet{}, err
		}
		logger.Warn("Keyword expansion degraded: %v", err)
	}
	return keywords, nil
}

// Discover runs the full pipeline for req.
func (s *DiscoveryService) Discover(
	ctx context.Context, req domain.DiscoveryRequest, observer driven.DiscoveryObserver,
) (*domain.DiscoveryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalised()
	thresholds := req.EffectiveThresholds()

	run := &discoveryRun{
		observer: observer,
		result: &domain.DiscoveryResult{
			RunID:        s.newID(),
			Mode:         req.Mode,
			Thresholds:   thresholds,
			Keywords:     []string{},
			Accepted:     []string{},
			Supplemental: []string{},
			Candidates:   []domain.CandidateCommunity{},
			StartedAt:    s.now(),
		},
	}
	result := run.result

	logger.Section("Discovery")
	logger.Debug("Run %s: mode=%s desired=%d related=%d", result.RunID, req.Mode, req.DesiredCount, req.RelatedCount)

	// 1. Keywords.
	run.stage(domain.StageExpand)
	keywords, err := s.expander.Expand(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return s.cancelled(ctx, run)
		}
		if errors.Is(err, domain.ErrInvalidWorkflow) {
			return nil, err
		}
		result.Skipped.Embeddings++
		run.skipped(err)
	}
	result.Keywords = keywords.Keywords()
	if keywords.IsEmpty() {
		logger.Info("No keywords to search")
		return s.finish(ctx, run), nil
	}
	logger.Debug("Keywords (%d): %s", keywords.Len(), strings.Join(result.Keywords, ", "))

	// 2. Keyword embeddings. A nil matrix disables semantic matching.
	var keywordEmbeddings [][]float32
	if s.index.Available() {
		run.stage(domain.StageEmbed)
		keywordEmbeddings, err = s.index.EncodeBatch(ctx, result.Keywords)
		if err != nil {
			if ctx.Err() != nil {
				return s.cancelled(ctx, run)
			}
			keywordEmbeddings = nil
			result.Skipped.Embeddings++
			run.skipped(err)
			logger.Warn("Keyword embedding failed, scoring lexically: %v", err)
		}
	}

	// 3. Candidates.
	run.stage(domain.StageFetch)
	report, err := s.aggregator.fetch(ctx, result.Keywords, s.postsPerKeyword, run.keywordFetched)
	result.PostCount = len(report.Posts)
	result.Skipped.Keywords = report.SkippedKeywords
	if err != nil {
		return s.cancelled(ctx, run)
	}
	candidates := UniqueCommunities(report.Posts)
	result.CandidateCount = len(candidates)
	logger.Debug("%d candidate communities from %d posts", len(candidates), len(report.Posts))

	// 4. Relevance.
	run.stage(domain.StageScore)
	lexical := newLexicalMatcher(result.Keywords)
	if err := s.scoreCandidates(ctx, run, candidates, lexical, keywordEmbeddings, thresholds, req.DesiredCount); err != nil {
		return s.cancelled(ctx, run)
	}

	// 5. Related communities.
	if req.RelatedCount > 0 && s.lookup != nil {
		run.stage(domain.StageSupplement)
		primary, _ := keywords.Primary()
		related, err := s.lookup.RelatedTo(ctx, primary, result.Accepted, req.RelatedCount)
		if err != nil {
			if ctx.Err() != nil {
				return s.cancelled(ctx, run)
			}
			result.Skipped.Lookups++
			run.skipped(fmt.Errorf("%w: %w", domain.ErrLookupUnavailable, err))
			logger.Warn("Related community lookup failed for %q: %v", primary, err)
		} else {
			result.Supplemental = supplementalList(related, result.Accepted, req.RelatedCount)
		}
	}

	return s.finish(ctx, run), nil
}

// scoreCandidates scores candidates in order until desired communities are
// accepted. With scoring concurrency above one, candidates are scored on a
// bounded pool but committed strictly in candidate order; reaching the cap
// cancels the work still in flight.
func (s *DiscoveryService) scoreCandidates(
	ctx context.Context,
	run *discoveryRun,
	candidates []string,
	lexical *lexicalMatcher,
	keywordEmbeddings [][]float32,
	thresholds domain.RelevanceThresholds,
	desired int,
) error {
	checked := make(map[string]struct{}, len(candidates))
	pending := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, ok := checked[name]; ok {
			continue
		}
		checked[name] = struct{}{}
		pending = append(pending, name)
	}

	if s.scoringConcurrency <= 1 {
		for _, name := range pending {
			if len(run.result.Accepted) >= desired {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			candidate, err := s.scorer.score(ctx, name, lexical, keywordEmbeddings, thresholds)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			run.commit(candidate, err)
		}
		return nil
	}

	scoreCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type slot struct {
		candidate domain.CandidateCommunity
		err       error
		done      bool
	}
	slots := make([]slot, len(pending))
	next := 0

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.scoringConcurrency)

	for i, name := range pending {
		if scoreCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if scoreCtx.Err() != nil {
				return nil
			}
			candidate, err := s.scorer.score(scoreCtx, name, lexical, keywordEmbeddings, thresholds)
			if err != nil && scoreCtx.Err() != nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			slots[i] = slot{candidate: candidate, err: err, done: true}
			for next < len(slots) && slots[next].done {
				if len(run.result.Accepted) >= desired {
					break
				}
				run.commit(slots[next].candidate, slots[next].err)
				next++
			}
			if len(run.result.Accepted) >= desired {
				cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	return ctx.Err()
}

// supplementalList drops accepted names (case-insensitively) and duplicates
// from related, keeping the lookup order, capped at limit.
func supplementalList(related, accepted []string, limit int) []string {
	exclude := make(map[string]struct{}, len(accepted)+len(related))
	for _, name := range accepted {
		exclude[strings.ToLower(name)] = struct{}{}
	}
	out := make([]string, 0, min(limit, len(related)))
	for _, name := range related {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := exclude[key]; ok {
			continue
		}
		exclude[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (s *DiscoveryService) finish(ctx context.Context, run *discoveryRun) *domain.DiscoveryResult {
	result := run.result
	result.FinishedAt = s.now()

	if s.runs != nil {
		if err := s.runs.Save(ctx, *result); err != nil {
			logger.Warn("Failed to save run %s: %v", result.RunID, err)
		}
	}

	logger.Info("Accepted %d communities, %d related (%d skipped items)",
		len(result.Accepted), len(result.Supplemental), result.Skipped.Total())
	run.stage(domain.StageDone)
	run.emit(domain.DiscoveryEvent{Kind: domain.EventFinished, Result: result})
	return result
}

// cancelled returns the partial result without persisting it.
func (s *DiscoveryService) cancelled(ctx context.Context, run *discoveryRun) (*domain.DiscoveryResult, error) {
	run.result.FinishedAt = s.now()
	logger.Warn("Discovery run %s cancelled: %v", run.result.RunID, ctx.Err())
	return run.result, ctx.Err()
}

// discoveryRun is the run-scoped accumulator.
type discoveryRun struct {
	result   *domain.DiscoveryResult
	observer driven.DiscoveryObserver
}

func (r *discoveryRun) emit(event domain.DiscoveryEvent) {
	if r.observer != nil {
		r.observer.OnEvent(event)
	}
}

func (r *discoveryRun) stage(stage domain.DiscoveryStage) {
	r.emit(domain.DiscoveryEvent{Kind: domain.EventStageStarted, Stage: stage})
}

func (r *discoveryRun) skipped(err error) {
	r.emit(domain.DiscoveryEvent{Kind: domain.EventItemSkipped, Err: err})
}

func (r *discoveryRun) keywordFetched(keyword string, posts int, err error) {
	if err != nil {
		r.skipped(err)
		return
	}
	r.emit(domain.DiscoveryEvent{Kind: domain.EventKeywordFetched, Keyword: keyword, Posts: posts})
}

// commit records a scored candidate.
func (r *discoveryRun) commit(candidate domain.CandidateCommunity, err error) {
	result := r.result
	result.Candidates = append(result.Candidates, candidate)
	result.Skipped.Posts += candidate.SkippedPosts
	if err != nil {
		result.Skipped.Candidates++
		logger.Warn("Skipping %s: %v", candidate.Name, err)
		r.skipped(err)
	}
	if candidate.Accepted {
		result.Accepted = append(result.Accepted, candidate.Name)
	}
	scored := candidate
	r.emit(domain.DiscoveryEvent{Kind: domain.EventCandidateScored, Candidate: &scored})
}
