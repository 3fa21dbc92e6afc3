package search

import (
	"errors"
	"fmt"
)

// Strategy names a retrieval mode.
type Strategy string

const (
	// StrategySemantic retrieves by vector similarity only.
	StrategySemantic Strategy = "semantic"
	// StrategyHybrid combines vector and fulltext retrieval with
	// client-side fusion.
	StrategyHybrid Strategy = "hybrid"
	// StrategyMerged uses the server's fused semantic+keyword ranking.
	StrategyMerged Strategy = "merged"
)

// ErrUnknownStrategy is returned for strategy names outside the three
// supported modes. It is a caller error, raised before any network call.
var ErrUnknownStrategy = errors.New("unknown search strategy")

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySemantic, StrategyHybrid, StrategyMerged:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Hit is one normalized retrieval result.
//
// Score ranges are strategy-defined and not comparable across strategies.
type Hit struct {
	// ResourceID is the matched resource.
	ResourceID string `json:"rid"`
	// Field identifies the document field the passage came from.
	Field string `json:"field"`
	// Index is the passage position within the field (for /search hits)
	// or the server rank (for merged hits).
	Index int `json:"index"`
	// Text is the passage text.
	Text string `json:"text"`
	// Score is the strategy-defined relevance score.
	Score float64 `json:"score"`
	// Strategy tags which retrieval mode produced this hit.
	Strategy Strategy `json:"strategy"`
}

// fusionKey identifies the same underlying passage across retrieval
// features within one hybrid query.
type fusionKey struct {
	rid   string
	field string
	index int
}
