package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
)

// PollOptions are the labels of every confirmation poll.
var PollOptions = []string{domain.ConfirmLabel, domain.CancelLabel}

// PipelineUseCase drives a receipt from image to pending proposal, and a poll answer
// from pending proposal to ledger commit.
type PipelineUseCase struct {
	ledger      *LedgerUseCase
	coordinator *ConfirmationCoordinator
	extractor   ReceiptExtractor
	converter   DocumentConverter
	archive     ReceiptArchive
	messenger   Messenger
	business    Business
	metrics     MetricsRecorder
	logger      zerolog.Logger
}

// PipelineConfig for PipelineUseCase. Archive and Converter are optional.
type PipelineConfig struct {
	Ledger      *LedgerUseCase
	Coordinator *ConfirmationCoordinator
	Extractor   ReceiptExtractor
	Converter   DocumentConverter
	Archive     ReceiptArchive
	Messenger   Messenger
	Business    Business
	Metrics     MetricsRecorder
	Logger      zerolog.Logger
}

// NewPipelineUseCase creates a new PipelineUseCase.
func NewPipelineUseCase(cfg PipelineConfig) *PipelineUseCase {
	if cfg.Metrics == nil {
		cfg.Metrics = NopMetrics{}
	}

	return &PipelineUseCase{
		ledger:      cfg.Ledger,
		coordinator: cfg.Coordinator,
		extractor:   cfg.Extractor,
		converter:   cfg.Converter,
		archive:     cfg.Archive,
		messenger:   cfg.Messenger,
		business:    cfg.Business,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// HandleReceipt extracts a receipt image sent in channel and raises a payment proposal
// for the admin. Images from unknown, non-privileged senders are ignored.
func (uc *PipelineUseCase) HandleReceipt(ctx context.Context, channel string, image []byte, privileged bool) error {
	allowed, err := uc.allowed(ctx, channel, privileged)
	if err != nil || !allowed {
		return err
	}

	return uc.processImage(ctx, channel, image)
}

// HandleDocument converts a PDF to an image and processes it as a receipt.
// Other document types are ignored.
func (uc *PipelineUseCase) HandleDocument(ctx context.Context, channel string, media *domain.Media, privileged bool) error {
	if media == nil || !media.IsPDF() || uc.converter == nil {
		return nil
	}

	allowed, err := uc.allowed(ctx, channel, privileged)
	if err != nil || !allowed {
		return err
	}

	image, err := uc.converter.ToImage(ctx, media.Data)
	if err != nil {
		uc.logger.Warn().Err(err).Str("channel", channel).Msg("pdf conversion failed")
		uc.send(ctx, channel, pdfReadFailed)
		return nil
	}

	return uc.processImage(ctx, channel, image)
}

func (uc *PipelineUseCase) allowed(ctx context.Context, channel string, privileged bool) (bool, error) {
	if privileged {
		return true, nil
	}

	exists, err := uc.ledger.AccountExists(ctx, channel)
	if err != nil {
		return false, fmt.Errorf("check account %s: %w", channel, err)
	}

	if !exists {
		uc.logger.Debug().Str("channel", channel).Msg("ignoring image from unknown sender")
	}

	return exists, nil
}

func (uc *PipelineUseCase) processImage(ctx context.Context, channel string, image []byte) error {
	uc.archiveImage(ctx, channel, image)

	start := time.Now()
	result := uc.extractor.Extract(ctx, image)
	uc.metrics.ExtractionFinished(result.Status, time.Since(start))

	log := uc.logger.With().Str("channel", channel).Str("status", result.Status.String()).Logger()

	switch result.Status {
	case domain.ExtractionExtracted:
		return uc.proposePayment(ctx, channel, result.Receipt)
	case domain.ExtractionInvalidReceiver:
		log.Info().Msg("receipt paid a different beneficiary")
		uc.send(ctx, uc.business.AdminChannel, invalidReceiverAlert(channel, result.Receipt))
	default:
		log.Info().Str("reason", result.Reason).Msg("image discarded")
	}

	return nil
}

func (uc *PipelineUseCase) proposePayment(ctx context.Context, channel string, receipt *domain.Receipt) error {
	uc.send(ctx, channel, receiptAcknowledgement)

	duplicate, err := uc.ledger.IsDuplicate(ctx, receipt.ReferenceID, receipt.DeclaredDate)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}

	if duplicate {
		uc.metrics.DuplicateDetected()
		uc.logger.Warn().
			Str("channel", channel).
			Str("reference_id", receipt.ReferenceID).
			Str("declared_date", receipt.DeclaredDate).
			Msg(domain.ErrDuplicateReceipt.Error())
		uc.send(ctx, uc.business.AdminChannel, duplicateAlert(channel, receipt.ReferenceID))
		return nil
	}

	proposal := domain.NewReceiptProposal(channel, receipt, time.Now().UTC())

	return uc.Propose(ctx, uc.business.AdminChannel, proposal, uc.business.paymentApproval(proposal))
}

// Propose registers p as pending on the approver's channel and sends the confirmation poll.
func (uc *PipelineUseCase) Propose(ctx context.Context, approver string, p *domain.Proposal, question string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	uc.coordinator.Propose(approver, p)

	if err := uc.messenger.SendPoll(ctx, approver, question, PollOptions); err != nil {
		uc.logger.Error().Err(err).Str("channel", approver).Msg("failed to send confirmation poll")
	}

	return nil
}

// HandlePollResponse resolves the proposal pending on channel. Answers for channels with
// nothing pending are ignored, so a repeated answer never commits twice.
func (uc *PipelineUseCase) HandlePollResponse(ctx context.Context, channel, selected string, privileged bool) error {
	accepted := domain.IsConfirmation(selected)

	proposal, ok := uc.coordinator.Resolve(channel, accepted)
	if !ok {
		uc.logger.Debug().Str("channel", channel).Msg(domain.ErrProposalNotFound.Error())
		return nil
	}

	if !accepted {
		uc.send(ctx, channel, operationCancelled)
		return nil
	}

	txn, err := uc.ledger.Commit(ctx, proposal)
	if errors.Is(err, domain.ErrDuplicateReference) {
		uc.logger.Warn().
			Str("account_id", proposal.AccountID).
			Str("reference_id", proposal.ReferenceID).
			Msg("commit rejected, reference already recorded")
		uc.send(ctx, uc.business.AdminChannel, commitConflictAlert(proposal))
		return nil
	}
	if err != nil {
		uc.send(ctx, channel, commitFailedNotice(proposal))
		return fmt.Errorf("commit proposal for %s: %w", proposal.AccountID, err)
	}

	uc.logger.Info().
		Str("account_id", txn.AccountID).
		Str("category", string(txn.Category)).
		Str("amount", txn.Amount.String()).
		Str("new_balance", txn.NewBalance.String()).
		Msg("transaction committed")

	summary := uc.business.commitSummary(txn)
	uc.send(ctx, proposal.AccountID, summary)

	switch {
	case channel != proposal.AccountID:
		uc.send(ctx, channel, processedFor(proposal.AccountID))
	case !privileged:
		uc.send(ctx, uc.business.AdminChannel, commitLogCopy(proposal.AccountID, summary))
	}

	return nil
}

func (uc *PipelineUseCase) archiveImage(ctx context.Context, channel string, image []byte) {
	if uc.archive == nil {
		return
	}

	name, err := uc.archive.Store(ctx, channel, image)
	if err != nil {
		uc.logger.Warn().Err(err).Str("channel", channel).Msg("failed to archive receipt")
		return
	}

	uc.logger.Debug().Str("object", name).Msg("receipt archived")
}

func (uc *PipelineUseCase) send(ctx context.Context, channel, message string) {
	if err := uc.messenger.SendText(ctx, channel, message); err != nil {
		uc.logger.Error().Err(err).Str("channel", channel).Msg("failed to send message")
	}
}
