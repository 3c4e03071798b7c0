package search

import (
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/index"
)

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(text string)
	AfterSemanticSearch(results []*core.ScoredChunk)
	AfterKeywordSearch(results []*core.ScoredChunk)
	AfterFusion(results []*core.ScoredChunk)
	AfterFilteredSearch(filters index.Filters, results []*core.ScoredChunk)
	Finish(results []*core.ScoredChunk)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                           {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.ScoredChunk)                {}
func (n *noopMonitor) AfterKeywordSearch(_ []*core.ScoredChunk)                 {}
func (n *noopMonitor) AfterFusion(_ []*core.ScoredChunk)                        {}
func (n *noopMonitor) AfterFilteredSearch(_ index.Filters, _ []*core.ScoredChunk) {}
func (n *noopMonitor) Finish(_ []*core.ScoredChunk)                             {}
