// Package search routes movie queries to a retrieval strategy and ranks the
// results.
//
// Three methods are supported: pure semantic nearest-neighbor search, hybrid
// search fusing semantic distance with keyword overlap, and plain catalog
// filtering driven by the query parser. Routing is a deterministic keyword
// cascade; when the semantic index is unavailable, semantic and hybrid
// queries downgrade to catalog filtering instead of failing.
package search
