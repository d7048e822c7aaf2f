package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
)

// adminSuffixLength is how many trailing digits identify the admin across number formats.
const adminSuffixLength = 8

// EventUseCase routes inbound gateway events.
type EventUseCase struct {
	commands    *CommandUseCase
	pipeline    *PipelineUseCase
	dedup       EventDeduplicator
	dedupTTL    time.Duration
	adminSuffix string
	logger      zerolog.Logger
}

// EventConfig for EventUseCase. Dedup is optional.
type EventConfig struct {
	Commands   *CommandUseCase
	Pipeline   *PipelineUseCase
	Dedup      EventDeduplicator
	DedupTTL   time.Duration
	AdminPhone string
	Logger     zerolog.Logger
}

// NewEventUseCase creates a new EventUseCase.
func NewEventUseCase(cfg EventConfig) *EventUseCase {
	if cfg.DedupTTL == 0 {
		cfg.DedupTTL = DefaultEventDedupTTL
	}

	suffix := domain.NormalizeAccountID(cfg.AdminPhone)
	if len(suffix) > adminSuffixLength {
		suffix = suffix[len(suffix)-adminSuffixLength:]
	}

	return &EventUseCase{
		commands:    cfg.Commands,
		pipeline:    cfg.Pipeline,
		dedup:       cfg.Dedup,
		dedupTTL:    cfg.DedupTTL,
		adminSuffix: suffix,
		logger:      cfg.Logger,
	}
}

// IsPrivileged reports whether sender is the admin.
func (uc *EventUseCase) IsPrivileged(sender string) bool {
	if uc.adminSuffix == "" {
		return false
	}
	return strings.HasSuffix(domain.NormalizeAccountID(sender), uc.adminSuffix)
}

// Handle processes one inbound event to completion.
func (uc *EventUseCase) Handle(ctx context.Context, ev *domain.InboundEvent) error {
	if ev.IsGroup || ev.Channel == "" {
		return nil
	}

	if !uc.firstDelivery(ctx, ev.ID) {
		uc.logger.Debug().Str("event_id", ev.ID).Msg("duplicate event delivery ignored")
		return nil
	}

	if err := uc.route(ctx, ev); err != nil {
		uc.forget(ctx, ev.ID)
		return err
	}

	return nil
}

func (uc *EventUseCase) route(ctx context.Context, ev *domain.InboundEvent) error {
	privileged := uc.IsPrivileged(ev.Sender)

	switch ev.Kind {
	case domain.EventPollResponse:
		if ev.SelectedOption == "" {
			return nil
		}
		return uc.pipeline.HandlePollResponse(ctx, ev.Channel, ev.SelectedOption, privileged)
	case domain.EventMessage:
		return uc.handleMessage(ctx, ev, privileged)
	default:
		return nil
	}
}

func (uc *EventUseCase) handleMessage(ctx context.Context, ev *domain.InboundEvent, privileged bool) error {
	if IsCommand(ev.Body) {
		return uc.commands.Handle(ctx, ev.Channel, ev.Body, privileged)
	}

	if ev.Media == nil || len(ev.Media.Data) == 0 {
		return nil
	}

	switch ev.Media.Kind {
	case domain.MediaImage:
		return uc.pipeline.HandleReceipt(ctx, ev.Channel, ev.Media.Data, privileged)
	case domain.MediaDocument:
		return uc.pipeline.HandleDocument(ctx, ev.Channel, ev.Media, privileged)
	default:
		return nil
	}
}

// firstDelivery fails open: a dedup store outage must not drop events.
func (uc *EventUseCase) firstDelivery(ctx context.Context, id string) bool {
	if uc.dedup == nil || id == "" {
		return true
	}

	first, err := uc.dedup.FirstSeen(ctx, id, uc.dedupTTL)
	if err != nil {
		uc.logger.Warn().Err(err).Str("event_id", id).Msg("event dedup unavailable")
		return true
	}

	return first
}

// forget releases a failed event so the gateway's retry is not taken for a duplicate.
func (uc *EventUseCase) forget(ctx context.Context, id string) {
	if uc.dedup == nil || id == "" {
		return
	}

	if err := uc.dedup.Forget(context.WithoutCancel(ctx), id); err != nil {
		uc.logger.Warn().Err(err).Str("event_id", id).Msg("failed to release event id")
	}
}
