package tools

import (
	"context"

	"github.com/ada-mcp/ada-mcp-tools/internal/fetcher"
)

const (
	// DefaultSearchLimit is the number of results returned when no limit is given.
	DefaultSearchLimit = 5

	// searchPrefixChars is how much of the query is used in the key pattern.
	searchPrefixChars = 10

	searchKeyPrefix = "ada:*"
)

type searchHit struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type searchResult struct {
	Query   string      `json:"query"`
	Results []searchHit `json:"results"`
	Count   int         `json:"count"`
}

// search looks up keys whose name contains the start of the query and returns
// up to limit of their values. Keys whose value cannot be read are skipped.
func (d *Dispatcher) search(ctx context.Context, args map[string]any) (any, bool) {
	query := stringArg(args, "query", "")
	limit := intArg(args, "limit", DefaultSearchLimit)
	if limit < 0 {
		limit = 0
	}

	pattern := searchKeyPrefix + fetcher.Truncate(query, searchPrefixChars) + "*"
	keys, _ := d.store.Keys(ctx, pattern)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	hits := make([]searchHit, 0, len(keys))
	for _, k := range keys {
		v, ok := d.store.Get(ctx, k)
		if !ok || v == "" {
			continue
		}
		hits = append(hits, searchHit{Key: k, Value: v})
	}

	return searchResult{Query: query, Results: hits, Count: len(hits)}, false
}
