package usecase

import (
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// MetricsRecorder receives domain counters from the use cases.
type MetricsRecorder interface {
	ExtractionFinished(status domain.ExtractionStatus, elapsed time.Duration)
	ProposalRaised(category domain.Category)
	ProposalOverwritten()
	ProposalResolved(accepted bool)
	PendingProposals(n int)
	CommitSucceeded(category domain.Category)
	CommitFailed(reason string)
	DuplicateDetected()
	ReminderSent(kind string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ExtractionFinished(domain.ExtractionStatus, time.Duration) {}
func (NopMetrics) ProposalRaised(domain.Category)                            {}
func (NopMetrics) ProposalOverwritten()                                      {}
func (NopMetrics) ProposalResolved(bool)                                     {}
func (NopMetrics) PendingProposals(int)                                      {}
func (NopMetrics) CommitSucceeded(domain.Category)                           {}
func (NopMetrics) CommitFailed(string)                                       {}
func (NopMetrics) DuplicateDetected()                                        {}
func (NopMetrics) ReminderSent(string)                                       {}
