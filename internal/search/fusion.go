package search

import "sort"

// fuseHybrid merges semantic and fulltext hits for one hybrid query.
//
// Hits are deduplicated by (resource, field, index). A passage surfaced by
// both features keeps the maximum of its two scores; max rather than sum
// avoids double-counting redundant evidence while still rewarding passages
// confirmed by both signals. The result is sorted by score descending
// (stable for ties) and truncated to pageSize.
func fuseHybrid(semantic, fulltext []Hit, pageSize int) []Hit {
	merged := make(map[fusionKey]Hit, len(semantic)+len(fulltext))
	var keys []fusionKey

	for _, hit := range append(append([]Hit{}, semantic...), fulltext...) {
		key := fusionKey{rid: hit.ResourceID, field: hit.Field, index: hit.Index}
		existing, ok := merged[key]
		if !ok {
			hit.Strategy = StrategyHybrid
			merged[key] = hit
			keys = append(keys, key)
			continue
		}
		if hit.Score > existing.Score {
			existing.Score = hit.Score
			merged[key] = existing
		}
	}

	// Walk keys in first-seen order so equal scores keep a stable order.
	fused := make([]Hit, 0, len(keys))
	for _, key := range keys {
		fused = append(fused, merged[key])
	}
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	if len(fused) > pageSize {
		fused = fused[:pageSize]
	}
	return fused
}
