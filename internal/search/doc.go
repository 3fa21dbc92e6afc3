// Package search executes retrieval strategies against the knowledge base.
//
// Three strategies are supported: semantic (vector similarity only),
// hybrid (vector + fulltext with client-side fusion) and merged
// (server-side rank fusion via /find). A bounded comparison cache avoids
// re-running all three strategies for repeated queries.
package search
