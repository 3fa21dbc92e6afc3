package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/kb"
)

// DefaultPageSize is used when callers pass a non-positive page size.
const DefaultPageSize = 5

// Executor runs retrieval strategies against the knowledge base.
// It is stateless apart from the optional comparison cache.
type Executor struct {
	gateway kb.Gateway
	cache   *ComparisonCache
	logger  *zap.Logger
}

// NewExecutor creates a strategy executor. The cache may be nil, in which
// case Compare always re-queries.
func NewExecutor(gateway kb.Gateway, cache *ComparisonCache, logger *zap.Logger) (*Executor, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Executor{
		gateway: gateway,
		cache:   cache,
		logger:  logger.Named("search"),
	}, nil
}

// Semantic retrieves sentence-level hits by vector similarity only.
// minScore, when non-nil, is applied as a server-side floor.
func (e *Executor) Semantic(ctx context.Context, query string, pageSize int, minScore *float64) ([]Hit, error) {
	pageSize = normalizePageSize(pageSize)

	results, err := e.gateway.Search(ctx, kb.SearchRequest{
		Query:    query,
		TopK:     pageSize,
		Features: []kb.Feature{kb.FeatureSemantic},
		MinScore: minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	hits := rawHitsToHits(results.Sentences.Results, StrategySemantic)
	// The gateway may over-return; never hand back more than requested.
	if len(hits) > pageSize {
		hits = hits[:pageSize]
	}
	searchesTotal.WithLabelValues(string(StrategySemantic)).Inc()
	return hits, nil
}

// Hybrid retrieves 2x pageSize candidates across vector and fulltext
// features and fuses them client-side, returning at most pageSize hits.
//
// Per-feature floors are forwarded only when set: a nil semantic floor and
// a zero BM25 floor are both omitted from the request.
func (e *Executor) Hybrid(ctx context.Context, query string, pageSize int, minScoreSemantic *float64, minScoreBM25 float64) ([]Hit, error) {
	pageSize = normalizePageSize(pageSize)

	minScores := map[kb.Feature]float64{}
	if minScoreSemantic != nil {
		minScores[kb.FeatureSemantic] = *minScoreSemantic
	}
	if minScoreBM25 > 0 {
		minScores[kb.FeatureBM25] = minScoreBM25
	}

	results, err := e.gateway.Search(ctx, kb.SearchRequest{
		Query:             query,
		TopK:              pageSize * 2,
		Features:          []kb.Feature{kb.FeatureSemantic, kb.FeatureFulltext},
		MinScoreByFeature: minScores,
	})
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	fused := fuseHybrid(
		rawHitsToHits(results.Sentences.Results, StrategyHybrid),
		rawHitsToHits(results.Fulltext.Results, StrategyHybrid),
		pageSize,
	)
	searchesTotal.WithLabelValues(string(StrategyHybrid)).Inc()
	return fused, nil
}

// Merged retrieves paragraph-level hits using the server's fused
// semantic+keyword ranking. The server order is preserved; no client-side
// re-ranking happens here.
func (e *Executor) Merged(ctx context.Context, query string, pageSize int, minScore *float64) ([]Hit, error) {
	pageSize = normalizePageSize(pageSize)

	results, err := e.gateway.Find(ctx, kb.FindRequest{
		Query:    query,
		TopK:     pageSize,
		Features: []kb.Feature{kb.FeatureSemantic, kb.FeatureKeyword},
		MinScore: minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("merged search: %w", err)
	}

	var hits []Hit
	for rid, resource := range results.Resources {
		for fieldID, field := range resource.Fields {
			for _, paragraph := range field.Paragraphs {
				hits = append(hits, Hit{
					ResourceID: rid,
					Field:      fieldID,
					Index:      paragraph.Order,
					Text:       paragraph.Text,
					Score:      paragraph.Score,
					Strategy:   StrategyMerged,
				})
			}
		}
	}
	// The server assigns each paragraph its rank; restoring that order is
	// not a re-rank.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Index < hits[j].Index
	})

	if len(hits) > pageSize {
		hits = hits[:pageSize]
	}
	searchesTotal.WithLabelValues(string(StrategyMerged)).Inc()
	return hits, nil
}

// Execute dispatches a query to the named strategy with default floors.
func (e *Executor) Execute(ctx context.Context, strategy Strategy, query string, pageSize int) ([]Hit, error) {
	switch strategy {
	case StrategySemantic:
		return e.Semantic(ctx, query, pageSize, nil)
	case StrategyHybrid:
		return e.Hybrid(ctx, query, pageSize, nil, 0)
	case StrategyMerged:
		return e.Merged(ctx, query, pageSize, nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Compare runs all three strategies for one query, serving repeats from
// the comparison cache when one is configured.
func (e *Executor) Compare(ctx context.Context, query string, pageSize int) (map[Strategy][]Hit, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(query); ok {
			cacheHitsTotal.Inc()
			e.logger.Debug("comparison served from cache", zap.String("query", query))
			return cached, nil
		}
		cacheMissesTotal.Inc()
	}

	comparison := make(map[Strategy][]Hit, 3)
	for _, strategy := range []Strategy{StrategySemantic, StrategyHybrid, StrategyMerged} {
		hits, err := e.Execute(ctx, strategy, query, pageSize)
		if err != nil {
			return nil, err
		}
		comparison[strategy] = hits
	}

	if e.cache != nil {
		e.cache.Put(query, comparison)
	}
	return comparison, nil
}

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}

func rawHitsToHits(raw []kb.RawHit, strategy Strategy) []Hit {
	hits := make([]Hit, 0, len(raw))
	for _, r := range raw {
		hits = append(hits, Hit{
			ResourceID: r.RID,
			Field:      r.Field,
			Index:      r.Index,
			Text:       r.Text,
			Score:      r.Score,
			Strategy:   strategy,
		})
	}
	return hits
}
