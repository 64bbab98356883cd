package ingestion

import (
	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/sources"
)

// Monitor provides hooks to observe an ingestion run.
// Implement this interface to track intermediate steps between phases.
type Monitor interface {
	Start(req Request)
	AfterCollect(postings []core.RawPosting, failures []sources.Failure)
	AfterNormalize(jobs []core.Job)
	AfterBackfill(filled int)
	AfterEmbed(records []core.VectorRecord)
	AfterPersist(stored, indexed int)
	Finish(result *core.IngestionResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Request)                                          {}
func (n *noopMonitor) AfterCollect(_ []core.RawPosting, _ []sources.Failure)    {}
func (n *noopMonitor) AfterNormalize(_ []core.Job)                              {}
func (n *noopMonitor) AfterBackfill(_ int)                                      {}
func (n *noopMonitor) AfterEmbed(_ []core.VectorRecord)                         {}
func (n *noopMonitor) AfterPersist(_, _ int)                                    {}
func (n *noopMonitor) Finish(_ *core.IngestionResult)                           {}
