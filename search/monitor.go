package search

import "github.com/poiesic/cinerag/core"

// SearchMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, method Method)
	AfterSemanticSearch(candidates []*core.RetrievedMovie)
	AfterFusion(ranked []*core.RetrievedMovie)
	AfterDatabaseSearch(movies []*core.Movie)
	Downgraded(err error)
	Finish(results []*core.RetrievedMovie)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Method)                       {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.RetrievedMovie)   {}
func (n *noopMonitor) AfterFusion(_ []*core.RetrievedMovie)           {}
func (n *noopMonitor) AfterDatabaseSearch(_ []*core.Movie)            {}
func (n *noopMonitor) Downgraded(_ error)                             {}
func (n *noopMonitor) Finish(_ []*core.RetrievedMovie)                {}
