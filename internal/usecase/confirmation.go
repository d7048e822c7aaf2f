package usecase

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
)

// ConfirmationCoordinator holds at most one pending proposal per approval channel.
// Proposals never expire; an unanswered one stays pending until the process exits.
type ConfirmationCoordinator struct {
	mu        sync.Mutex
	proposals map[string]*domain.Proposal
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewConfirmationCoordinator creates a new ConfirmationCoordinator.
func NewConfirmationCoordinator(metrics MetricsRecorder, logger zerolog.Logger) *ConfirmationCoordinator {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &ConfirmationCoordinator{
		proposals: make(map[string]*domain.Proposal),
		metrics:   metrics,
		logger:    logger,
	}
}

// Propose stores p for channel, replacing any pending proposal. The replaced proposal is returned.
func (c *ConfirmationCoordinator) Propose(channel string, p *domain.Proposal) *domain.Proposal {
	c.mu.Lock()
	previous := c.proposals[channel]
	c.proposals[channel] = p
	n := len(c.proposals)
	c.mu.Unlock()

	c.metrics.ProposalRaised(p.Category)
	c.metrics.PendingProposals(n)

	if previous != nil {
		c.metrics.ProposalOverwritten()
		c.logger.Warn().
			Str("channel", channel).
			Str("account_id", previous.AccountID).
			Str("sign", string(previous.Sign)).
			Str("magnitude", previous.Magnitude.String()).
			Str("reference_id", previous.ReferenceID).
			Msg("pending proposal replaced without a response")
	}

	return previous
}

// Resolve removes and returns the pending proposal for channel. The second return value
// is false when nothing was pending, so duplicate responses are no-ops.
func (c *ConfirmationCoordinator) Resolve(channel string, accepted bool) (*domain.Proposal, bool) {
	c.mu.Lock()
	p, ok := c.proposals[channel]
	if ok {
		delete(c.proposals, channel)
	}
	n := len(c.proposals)
	c.mu.Unlock()

	if !ok {
		return nil, false
	}

	c.metrics.ProposalResolved(accepted)
	c.metrics.PendingProposals(n)

	return p, true
}

// Pending returns the proposal waiting on channel, if any.
func (c *ConfirmationCoordinator) Pending(channel string) (*domain.Proposal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.proposals[channel]
	return p, ok
}

// Len returns the number of pending proposals.
func (c *ConfirmationCoordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.proposals)
}
